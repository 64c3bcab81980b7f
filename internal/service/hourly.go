package service

import (
	"github.com/plon/illinispots-sub000/internal/models"
)

// BuildHourlyBlocks slices a room schedule into fixed rendering blocks. The
// first block runs from the schedule's start to the next hour boundary, so a
// day opening at 09:30 yields a 30 minute lead block; every later block is a
// full hour except the final one, which is clipped to the schedule's end.
// Within a block, sections tile it exactly: schedule intervals are clipped to
// the block and unrecorded spans are filled as available.
func BuildHourlyBlocks(schedule models.RoomSchedule) []models.HourlyBlock {
	first, last, ok := schedule.Bounds()
	if !ok {
		return nil
	}

	var blocks []models.HourlyBlock
	blockStart := first
	for blockStart.Before(last) {
		blockEnd := blockStart.TruncateToHour().AddMinutes(60)
		if last.Before(blockEnd) {
			blockEnd = last
		}
		blocks = append(blocks, models.HourlyBlock{
			Start:    blockStart,
			End:      blockEnd,
			Sections: blockSections(schedule, blockStart, blockEnd),
		})
		blockStart = blockEnd
	}
	return blocks
}

// blockSections clips the schedule to [blockStart, blockEnd) and fills the
// unrecorded remainder with available sections.
func blockSections(schedule models.RoomSchedule, blockStart, blockEnd models.TimeOfDay) []models.BlockSection {
	var sections []models.BlockSection
	cursor := blockStart

	for _, iv := range schedule.Intervals {
		if !iv.Start.Before(blockEnd) || !blockStart.Before(iv.End) {
			continue
		}

		secStart := iv.Start
		if secStart.Before(blockStart) {
			secStart = blockStart
		}
		secEnd := iv.End
		if blockEnd.Before(secEnd) {
			secEnd = blockEnd
		}

		if cursor.Before(secStart) {
			sections = append(sections, models.BlockSection{
				Start:  cursor,
				End:    secStart,
				Status: models.BlockAvailable,
			})
		}
		sections = append(sections, models.BlockSection{
			Start:   secStart,
			End:     secEnd,
			Status:  iv.Status,
			Details: iv.Details,
		})
		cursor = secEnd
	}

	if cursor.Before(blockEnd) {
		sections = append(sections, models.BlockSection{
			Start:  cursor,
			End:    blockEnd,
			Status: models.BlockAvailable,
		})
	}
	return sections
}
