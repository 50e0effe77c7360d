// Copyright 2017 Microsoft. All rights reserved.
// MIT License

package vrfstore

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultVRFName is the VRF every switch starts with.
	DefaultVRFName = "vrf_default"

	// MaxNameLen is the longest VRF name the database accepts.
	MaxNameLen = 32
)

var (
	// Errors returned by lookups and stores.
	ErrRecordNotFound = errors.New("vrf record not found")
	ErrInvalidRecord  = errors.New("invalid vrf record")
)

// Record is one row of the VRF table.
type Record struct {
	UUID    uuid.UUID `json:"uuid"`
	Name    string    `json:"name"`
	TableID *int64    `json:"table_id,omitempty"`
}

// Validate checks the fields the database constrains.
func (r *Record) Validate() error {
	if r.UUID == uuid.Nil {
		return errors.Wrap(ErrInvalidRecord, "missing uuid")
	}
	if r.Name == "" || len(r.Name) > MaxNameLen {
		return errors.Wrapf(ErrInvalidRecord, "name %q must be 1 to %d bytes", r.Name, MaxNameLen)
	}
	if r.TableID != nil && *r.TableID < 0 {
		return errors.Wrapf(ErrInvalidRecord, "negative table id %d", *r.TableID)
	}

	return nil
}

// Store is read-only access to the VRF records. The records belong to the
// database; callers scan a fresh snapshot on every lookup.
//
//go:generate mockgen -destination=mockstore.go -package=vrfstore github.com/MERAprojects/ops-utils/vrfstore Store
type Store interface {
	Records() ([]Record, error)
}

// StaticStore serves a fixed set of records.
type StaticStore []Record

func (s StaticStore) Records() ([]Record, error) {
	return s, nil
}

func find(s Store, match func(*Record) bool) (*Record, error) {
	records, err := s.Records()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vrf records")
	}

	for i := range records {
		if match(&records[i]) {
			rec := records[i]
			return &rec, nil
		}
	}

	return nil, ErrRecordNotFound
}

// FindByName returns the record whose name matches in its first MaxNameLen bytes.
func FindByName(s Store, name string) (*Record, error) {
	key := truncate(name)
	rec, err := find(s, func(r *Record) bool {
		return truncate(r.Name) == key
	})

	return rec, errors.Wrapf(err, "name %s", name)
}

// FindByTableID returns the record carrying tableID. Records without a table id never match.
func FindByTableID(s Store, tableID int64) (*Record, error) {
	rec, err := find(s, func(r *Record) bool {
		return r.TableID != nil && *r.TableID == tableID
	})

	return rec, errors.Wrapf(err, "table id %d", tableID)
}

// FindByUUID returns the record identified by id.
func FindByUUID(s Store, id uuid.UUID) (*Record, error) {
	rec, err := find(s, func(r *Record) bool {
		return r.UUID == id
	})

	return rec, errors.Wrapf(err, "uuid %s", id)
}

// DefaultVRF returns the record of the default VRF.
func DefaultVRF(s Store) (*Record, error) {
	return FindByName(s, DefaultVRFName)
}

// UUIDForTableID returns the identifier of the VRF using tableID.
func UUIDForTableID(s Store, tableID int64) (uuid.UUID, error) {
	rec, err := FindByTableID(s, tableID)
	if err != nil {
		return uuid.Nil, err
	}

	return rec.UUID, nil
}

// TableIDForUUID returns the table id of the VRF identified by id.
func TableIDForUUID(s Store, id uuid.UUID) (int64, error) {
	rec, err := FindByUUID(s, id)
	if err != nil {
		return -1, err
	}

	if rec.TableID == nil {
		return -1, errors.Wrapf(ErrRecordNotFound, "vrf %s has no table id", rec.Name)
	}

	return *rec.TableID, nil
}

func truncate(name string) string {
	if len(name) > MaxNameLen {
		return name[:MaxNameLen]
	}

	return strings.TrimRight(name, "\x00")
}
