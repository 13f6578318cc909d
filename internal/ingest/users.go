package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"starling/internal/model"
)

// UnknownValue is the sentinel for absent user dimension attributes.
const UnknownValue = "unknown"

// ReadUsers reads the tabular user dimension. The feed must carry a
// user_id column; country and signup_source are optional and default to
// the "unknown" sentinel. Rows with an empty user_id are skipped.
func ReadUsers(r io.Reader) ([]model.User, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols["user_id"]; !ok {
		return nil, fmt.Errorf("users feed has no user_id column")
	}

	var users []model.User
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read users row: %w", err)
		}

		id := strings.TrimSpace(field(record, cols, "user_id"))
		if id == "" {
			continue
		}
		users = append(users, model.User{
			UserID:       id,
			Country:      fieldOrUnknown(record, cols, "country"),
			SignupSource: fieldOrUnknown(record, cols, "signup_source"),
		})
	}
	return users, nil
}

// ReadUsersFile opens path and delegates to ReadUsers.
func ReadUsersFile(path string) ([]model.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()
	return ReadUsers(f)
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func fieldOrUnknown(record []string, cols map[string]int, name string) string {
	v := strings.TrimSpace(field(record, cols, name))
	if v == "" {
		return UnknownValue
	}
	return v
}
