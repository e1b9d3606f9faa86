package member

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Members"

var sheetHeader = []string{
	"id", "name", "email", "phone", "joinDate", "organization", "teams",
	"position", "role", "job", "rank", "isAdmin",
}

// headerAliases maps normalized header cells (English or the portal's Korean labels) to columns.
var headerAliases = map[string]string{
	"id": "id", "아이디": "id",
	"name": "name", "이름": "name",
	"email": "email", "이메일": "email",
	"phone": "phone", "전화번호": "phone", "연락처": "phone",
	"joindate": "joinDate", "입사일": "joinDate",
	"organization": "organization", "조직": "organization", "소속": "organization",
	"teams": "teams", "team": "teams", "팀": "teams",
	"position": "position", "직책": "position",
	"role": "role", "역할": "role",
	"job": "job", "직무": "job",
	"rank": "rank", "직급": "rank",
	"isadmin": "isAdmin", "관리자": "isAdmin",
}

// ImportSpreadsheet implements member.MemberService.
func (s *MemberServiceImpl) ImportSpreadsheet(ctx context.Context, r io.Reader) (int, error) {
	members, err := parseMemberSheet(r)
	if err != nil {
		return 0, err
	}
	return s.ImportMembers(ctx, member.BulkImportRequest{Members: members})
}

func parseMemberSheet(r io.Reader) ([]member.Member, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", member.ErrInvalidSheet, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no worksheet found", member.ErrInvalidSheet)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", member.ErrInvalidSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", member.ErrInvalidSheet)
	}

	columns := map[string]int{}
	for idx, cell := range rows[0] {
		if col, ok := headerAliases[normalizeHeader(cell)]; ok {
			columns[col] = idx
		}
	}
	for _, required := range []string{"name", "email"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", member.ErrInvalidSheet, required)
		}
	}

	get := func(row []string, col string) string {
		idx, ok := columns[col]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	members := make([]member.Member, 0, len(rows)-1)
	for i, row := range rows[1:] {
		name, email := get(row, "name"), get(row, "email")
		if name == "" && email == "" {
			continue
		}
		if email == "" {
			return nil, fmt.Errorf("%w: row %d has no email", member.ErrInvalidSheet, i+2)
		}

		isAdmin, _ := strconv.ParseBool(get(row, "isAdmin"))
		members = append(members, member.Member{
			ID:           get(row, "id"),
			Name:         name,
			Email:        email,
			Phone:        get(row, "phone"),
			JoinDate:     get(row, "joinDate"),
			Organization: get(row, "organization"),
			Teams:        splitTeams(get(row, "teams")),
			Position:     get(row, "position"),
			Role:         get(row, "role"),
			Job:          get(row, "job"),
			Rank:         get(row, "rank"),
			IsAdmin:      isAdmin,
		})
	}
	return members, nil
}

// ExportSpreadsheet implements member.MemberService.
func (s *MemberServiceImpl) ExportSpreadsheet(ctx context.Context, w io.Writer) error {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(sheetHeader))
	for i, h := range sheetHeader {
		header[i] = h
	}
	if err := file.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			m.ID, m.Name, m.Email, m.Phone, m.JoinDate, m.Organization, strings.Join(m.Teams, ", "),
			m.Position, m.Role, m.Job, m.Rank, strconv.FormatBool(m.IsAdmin),
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitTeams(value string) []string {
	if value == "" {
		return nil
	}
	var teams []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			teams = append(teams, part)
		}
	}
	return teams
}
