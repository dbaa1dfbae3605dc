package main

import (
	"fmt"
	"strconv"
	"strings"

	"atelier/internal/store"
)

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func joinInts(values []int64) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ", ")
}

// formatElapsed renders whole seconds as mm:ss.
func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func childRows(children []store.Child) [][]string {
	rows := make([][]string, 0, len(children))
	for _, child := range children {
		rows = append(rows, []string{
			strconv.FormatInt(child.ID, 10),
			child.Name,
			child.DateOfBirth,
			truncate(child.Notes, 40),
		})
	}
	return rows
}

func workshopRows(workshops []store.Workshop) [][]string {
	rows := make([][]string, 0, len(workshops))
	for _, workshop := range workshops {
		rows = append(rows, []string{
			strconv.FormatInt(workshop.ID, 10),
			workshop.Title,
			string(workshop.Status),
			truncate(strings.Join(workshop.LearningGoals, "; "), 40),
			truncate(strings.Join(workshop.Materials, "; "), 30),
		})
	}
	return rows
}

func sessionRows(sessions []store.Session) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			strconv.FormatInt(session.ID, 10),
			strconv.FormatInt(session.WorkshopID, 10),
			session.Date,
			strconv.Itoa(len(session.Attendees)),
			truncate(session.Notes, 40),
		})
	}
	return rows
}

func observationRows(observations []store.Observation) [][]string {
	rows := make([][]string, 0, len(observations))
	for _, observation := range observations {
		rows = append(rows, []string{
			strconv.FormatInt(observation.ID, 10),
			strconv.FormatInt(observation.ChildID, 10),
			observation.Date,
			string(observation.Type),
			truncate(observation.Content, 50),
		})
	}
	return rows
}

func recordingRows(recordings []store.Recording) [][]string {
	rows := make([][]string, 0, len(recordings))
	for _, recording := range recordings {
		rows = append(rows, []string{
			strconv.FormatInt(recording.ID, 10),
			strconv.FormatInt(recording.SessionID, 10),
			string(recording.MediaType),
			string(recording.Status),
			recording.StartTime,
			recording.MediaURL,
		})
	}
	return rows
}

func momentRows(moments []store.TaggedMoment) [][]string {
	rows := make([][]string, 0, len(moments))
	for _, moment := range moments {
		rows = append(rows, []string{
			strconv.FormatInt(moment.ID, 10),
			strconv.FormatInt(moment.RecordingID, 10),
			formatElapsed(moment.Timestamp),
			truncate(moment.Note, 40),
			joinInts(moment.Children),
		})
	}
	return rows
}
