package entry

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// DefaultTenantID is the tenant used when none is given.
const DefaultTenantID = "_"

// keyDelimiter separates the entry ID from the tenant ID in the external
// string form. Tenant IDs containing the delimiter are quoted CSV-style.
const keyDelimiter = '|'

// EntryKey is the externally visible composite identity of an entry. It is
// distinct from the surrogate row ID the token and association tables
// reference.
type EntryKey struct {
	EntryID  int64  `json:"entryId"`
	TenantID string `json:"tenantId"`
}

// NewEntryKey builds a key, substituting the default tenant for an empty one.
func NewEntryKey(entryID int64, tenantID string) EntryKey {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return EntryKey{EntryID: entryID, TenantID: tenantID}
}

// IsDefaultTenant reports whether the key belongs to the default tenant.
func (k EntryKey) IsDefaultTenant() bool {
	return k.TenantID == DefaultTenantID
}

// FormatID renders an entry ID in its canonical zero-padded form.
func FormatID(entryID int64) string {
	return fmt.Sprintf("%05d", entryID)
}

// String renders the external form: the padded entry ID alone for the default
// tenant, otherwise "id|tenant" with the tenant quoted if it contains the
// delimiter.
func (k EntryKey) String() string {
	if k.IsDefaultTenant() {
		return FormatID(k.EntryID)
	}
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = keyDelimiter
	_ = w.Write([]string{FormatID(k.EntryID), k.TenantID})
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// ParseEntryKey parses the external string form back into a key.
func ParseEntryKey(value string) (EntryKey, error) {
	r := csv.NewReader(strings.NewReader(value))
	r.Comma = keyDelimiter
	fields, err := r.Read()
	if err != nil {
		return EntryKey{}, fmt.Errorf("invalid entry key format: %q: %w", value, err)
	}
	if len(fields) != 1 && len(fields) != 2 {
		return EntryKey{}, fmt.Errorf("invalid entry key format: %q", value)
	}
	entryID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return EntryKey{}, fmt.Errorf("invalid entry key format: %q: %w", value, err)
	}
	tenantID := ""
	if len(fields) == 2 {
		tenantID = fields[1]
	}
	return NewEntryKey(entryID, tenantID), nil
}
