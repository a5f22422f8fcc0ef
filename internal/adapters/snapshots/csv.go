package snapshots

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/normalize"
	"github.com/ibutrack/teamboard/pkg/metrics"
)

// readMemberCSV parses one member snapshot export. Header aliases (name,
// points) are normalized first. Rows without a member name are dropped;
// missing or malformed numeric cells coerce to 0 so one bad export line
// never hides the member from the whole history.
func readMemberCSV(path string) ([]model.MemberRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := normalize.Headers(records[0])
	nameIdx := normalize.ColumnIndex(header, normalize.ColMember)
	pointsIdx := normalize.ColumnIndex(header, normalize.ColPoints)
	rankIdx := normalize.ColumnIndex(header, normalize.ColRank)
	joinedIdx := normalize.ColumnIndex(header, normalize.ColJoinedDate)
	if nameIdx < 0 || pointsIdx < 0 {
		return nil, ErrMissingColumns
	}

	rows := make([]model.MemberRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := strings.TrimSpace(cell(rec, nameIdx))
		if name == "" {
			metrics.RecordSnapshotRowSkipped("missing_name")
			continue
		}
		points, c := model.CoerceInt(cell(rec, pointsIdx))
		switch c {
		case model.CoercedMissing:
			metrics.RecordSnapshotRowSkipped("missing_points")
		case model.CoercedMalformed:
			metrics.RecordSnapshotRowSkipped("malformed_points")
		default:
			metrics.RecordSnapshotRowParsed()
		}
		rank64, _ := model.CoerceInt(cell(rec, rankIdx))
		rows = append(rows, model.MemberRow{
			Name:       name,
			Points:     points,
			Rank:       int(rank64),
			JoinedDate: strings.TrimSpace(cell(rec, joinedIdx)),
		})
	}
	return rows, nil
}

// Team ranking export columns, as scraped.
const (
	colTeamName    = "Name"
	colTotalPoints = "total_points"
	colMembers     = "members"
	col90Days      = "90_days"
	col180Days     = "180_days"
	colTeamRank    = "Rank"
)

// readTeamCSV parses one team rankings export.
func readTeamCSV(path string) ([]model.TeamRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	nameIdx := normalize.ColumnIndex(header, colTeamName)
	if nameIdx < 0 {
		return nil, ErrMissingColumns
	}
	totalIdx := normalize.ColumnIndex(header, colTotalPoints)
	membersIdx := normalize.ColumnIndex(header, colMembers)
	d90Idx := normalize.ColumnIndex(header, col90Days)
	d180Idx := normalize.ColumnIndex(header, col180Days)
	rankIdx := normalize.ColumnIndex(header, colTeamRank)

	rows := make([]model.TeamRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := strings.TrimSpace(cell(rec, nameIdx))
		if name == "" {
			metrics.RecordSnapshotRowSkipped("missing_name")
			continue
		}
		total, _ := model.CoerceInt(cell(rec, totalIdx))
		memberCount, _ := model.CoerceInt(cell(rec, membersIdx))
		d90, _ := model.CoerceInt(cell(rec, d90Idx))
		d180, _ := model.CoerceInt(cell(rec, d180Idx))
		rank64, _ := model.CoerceInt(cell(rec, rankIdx))
		metrics.RecordSnapshotRowParsed()
		rows = append(rows, model.TeamRow{
			Name:        name,
			TotalPoints: total,
			Members:     memberCount,
			Days90:      d90,
			Days180:     d180,
			Rank:        int(rank64),
		})
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	// Exports occasionally carry ragged rows; tolerate them.
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// cell returns the record field at idx, or "" when the column is absent or
// the row is short.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
