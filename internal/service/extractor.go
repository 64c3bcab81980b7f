package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/plon/illinispots-sub000/internal/models"
)

// The spaces page embeds its room catalog as a sequence of script literals:
//
//	resources.push({ id: "...", title: "...", url: "...", eid: 123, ... });
//
// Each pushed object is scanned for its fields individually so field order
// inside a literal does not matter; a literal missing any required field is
// skipped rather than failing the whole extraction.
var (
	resourceBlockPattern = regexp.MustCompile(`(?s)resources\.push\(\{(.*?)\}\);`)

	resourceStringFields = map[string]*regexp.Regexp{
		"id":        regexp.MustCompile(`id:\s*"([^"]+)"`),
		"title":     regexp.MustCompile(`title:\s*"([^"]+)"`),
		"url":       regexp.MustCompile(`url:\s*"([^"]+)"`),
		"grouping":  regexp.MustCompile(`grouping:\s*"([^"]+)"`),
		"thumbnail": regexp.MustCompile(`thumbnail:\s*"([^"]*)"`),
	}
	resourceIntFields = map[string]*regexp.Regexp{
		"eid": regexp.MustCompile(`eid:\s*(\d+)`),
		"lid": regexp.MustCompile(`\blid:\s*(\d+)`),
	}
)

// ExtractStudyRooms parses the raw spaces page text into room resource
// records. Pure and deterministic; completely unparseable input yields an
// empty slice, never an error.
func ExtractStudyRooms(pageText, siteOrigin string) []models.StudyRoom {
	blocks := resourceBlockPattern.FindAllStringSubmatch(pageText, -1)
	rooms := make([]models.StudyRoom, 0, len(blocks))

	for _, block := range blocks {
		body := block[1]

		strValues := make(map[string]string, len(resourceStringFields))
		complete := true
		for name, pattern := range resourceStringFields {
			m := pattern.FindStringSubmatch(body)
			if m == nil {
				complete = false
				break
			}
			strValues[name] = m[1]
		}
		if !complete {
			continue
		}

		intValues := make(map[string]int, len(resourceIntFields))
		for name, pattern := range resourceIntFields {
			m := pattern.FindStringSubmatch(body)
			if m == nil {
				complete = false
				break
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				complete = false
				break
			}
			intValues[name] = n
		}
		if !complete {
			continue
		}

		thumbnail := strValues["thumbnail"]
		if strings.HasPrefix(thumbnail, "//") {
			thumbnail = "https:" + thumbnail
		}
		roomURL := strValues["url"]
		if !strings.HasPrefix(roomURL, "https://") {
			roomURL = siteOrigin + roomURL
		}

		rooms = append(rooms, models.StudyRoom{
			ID:        strValues["id"],
			Title:     decodeEscapes(strValues["title"]),
			URL:       roomURL,
			EID:       intValues["eid"],
			LID:       intValues["lid"],
			Grouping:  decodeEscapes(strValues["grouping"]),
			Thumbnail: thumbnail,
		})
	}

	return rooms
}

// decodeEscapes resolves \uXXXX and standard backslash escapes embedded in
// the script literal. Undecodable input is returned as-is.
func decodeEscapes(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	decoded, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		return raw
	}
	return decoded
}
