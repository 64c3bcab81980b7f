package models

// StudyRoom is one reservable space record extracted from the booking site's
// spaces page.
type StudyRoom struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	EID       int    `json:"eid"`
	LID       int    `json:"lid"`
	Grouping  string `json:"grouping"`
	Thumbnail string `json:"thumbnail"`
}

// ReservationSlot is one raw grid slot from the booking service. Start and
// End are local timestamps in "YYYY-MM-DD HH:mm:ss" form. A ClassName of
// "s-lc-eq-checkout" marks a booked (checked-out) slot; untagged slots are
// open for reservation.
type ReservationSlot struct {
	ItemID    int    `json:"itemId"`
	Start     string `json:"start"`
	End       string `json:"end"`
	ClassName string `json:"className,omitempty"`
}

// ReservationResponse is the booking grid payload for one facility and date
// span.
type ReservationResponse struct {
	Slots []ReservationSlot `json:"slots"`
}

// LibraryInfo identifies one library facility on the booking service,
// including its optional post-midnight fold cutoff ("02:00" for facilities
// whose hours wrap past midnight; empty when hours never wrap).
type LibraryInfo struct {
	ID              string
	Name            string
	NumRooms        int
	Address         string
	OvernightCutoff string
}
