// Package order defines completed order records and the stores that persist them.
package order

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/magnitronlab/preorder-bot/internal/i18n"
)

// TimestampLayout is how timestamps appear in the order log and in operator alerts.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrIncomplete is returned when a record misses one of the collected fields.
var ErrIncomplete = errors.New("order: record is incomplete")

// Columns is the fixed header of the order log.
var Columns = []string{
	"timestamp",
	"language",
	"username",
	"user_id",
	"name",
	"surname",
	"phone",
	"email",
	"address",
	"status",
}

// Record is one completed order. Records are immutable once written.
type Record struct {
	Timestamp     time.Time
	Language      i18n.Language
	DisplayHandle string
	UserID        int64
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	Address       string
	Status        string
}

// Store appends completed orders to durable storage.
type Store interface {
	Append(ctx context.Context, rec Record) error
}

// StatusNew is the status every record is created with.
func StatusNew() string {
	return i18n.Text(i18n.Primary, i18n.StatusNew)
}

// Complete reports whether all five collected fields are non-empty.
func (r Record) Complete() bool {
	for _, v := range []string{r.FirstName, r.LastName, r.Phone, r.Email, r.Address} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// FormatTimestamp renders the record time in the log layout.
func (r Record) FormatTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// Row renders the record as cells in Columns order.
func (r Record) Row() []string {
	return []string{
		r.FormatTimestamp(),
		string(r.Language),
		r.DisplayHandle,
		strconv.FormatInt(r.UserID, 10),
		r.FirstName,
		r.LastName,
		r.Phone,
		r.Email,
		r.Address,
		r.Status,
	}
}

// ParseRow is the inverse of Row. Timestamps are read in the local time zone.
func ParseRow(row []string) (Record, error) {
	if len(row) != len(Columns) {
		return Record{}, errors.New("order: unexpected column count " + strconv.Itoa(len(row)))
	}
	ts, err := time.ParseInLocation(TimestampLayout, row[0], time.Local)
	if err != nil {
		return Record{}, err
	}
	uid, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Timestamp:     ts,
		Language:      i18n.Language(row[1]),
		DisplayHandle: row[2],
		UserID:        uid,
		FirstName:     row[4],
		LastName:      row[5],
		Phone:         row[6],
		Email:         row[7],
		Address:       row[8],
		Status:        row[9],
	}, nil
}
