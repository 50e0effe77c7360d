package vrfstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tableID(id int64) *int64 {
	return &id
}

var (
	defaultUUID = uuid.MustParse("6f3a3c1e-8f67-4f38-9a4e-0b7b1f0f0001")
	redUUID     = uuid.MustParse("6f3a3c1e-8f67-4f38-9a4e-0b7b1f0f0002")
	blueUUID    = uuid.MustParse("6f3a3c1e-8f67-4f38-9a4e-0b7b1f0f0003")

	testRecords = StaticStore{
		{UUID: defaultUUID, Name: DefaultVRFName, TableID: tableID(0)},
		{UUID: redUUID, Name: "red", TableID: tableID(5)},
		{UUID: blueUUID, Name: "blue"},
	}
)

func TestLookups(t *testing.T) {
	tests := []struct {
		name    string
		lookup  func(Store) (*Record, error)
		want    *Record
		wantErr bool
	}{
		{
			name:   "by name",
			lookup: func(s Store) (*Record, error) { return FindByName(s, "red") },
			want:   &testRecords[1],
		},
		{
			name:   "default vrf",
			lookup: DefaultVRF,
			want:   &testRecords[0],
		},
		{
			name:   "by table id",
			lookup: func(s Store) (*Record, error) { return FindByTableID(s, 5) },
			want:   &testRecords[1],
		},
		{
			name:    "record without table id never matches",
			lookup:  func(s Store) (*Record, error) { return FindByTableID(s, 0xdead) },
			wantErr: true,
		},
		{
			name:   "by uuid",
			lookup: func(s Store) (*Record, error) { return FindByUUID(s, blueUUID) },
			want:   &testRecords[2],
		},
		{
			name:    "unknown name",
			lookup:  func(s Store) (*Record, error) { return FindByName(s, "green") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup(testRecords)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRecordNotFound)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lookup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindByNameComparesBoundedPrefix(t *testing.T) {
	long := strings.Repeat("a", MaxNameLen)
	s := StaticStore{{UUID: redUUID, Name: long}}

	rec, err := FindByName(s, long+"suffix")
	require.NoError(t, err)
	require.Equal(t, redUUID, rec.UUID)

	_, err = FindByName(s, long[:MaxNameLen-1])
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUUIDTableIDConversions(t *testing.T) {
	id, err := UUIDForTableID(testRecords, 5)
	require.NoError(t, err)
	require.Equal(t, redUUID, id)

	_, err = UUIDForTableID(testRecords, 6)
	require.ErrorIs(t, err, ErrRecordNotFound)

	table, err := TableIDForUUID(testRecords, redUUID)
	require.NoError(t, err)
	require.Equal(t, int64(5), table)

	_, err = TableIDForUUID(testRecords, blueUUID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLookupReadsFreshSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewMockStore(ctrl)
	gomock.InOrder(
		s.EXPECT().Records().Return(nil, nil),
		s.EXPECT().Records().Return([]Record{{UUID: redUUID, Name: "red"}}, nil),
	)

	_, err := FindByName(s, "red")
	require.ErrorIs(t, err, ErrRecordNotFound)

	rec, err := FindByName(s, "red")
	require.NoError(t, err)
	require.Equal(t, redUUID, rec.UUID)
}

func TestLookupStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	readErr := errors.New("db unavailable")
	s := NewMockStore(ctrl)
	s.EXPECT().Records().Return(nil, readErr)

	_, err := DefaultVRF(s)
	require.ErrorIs(t, err, readErr)
	require.NotErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordValidate(t *testing.T) {
	require.NoError(t, testRecords[1].Validate())

	bad := []Record{
		{Name: "red"},
		{UUID: redUUID},
		{UUID: redUUID, Name: strings.Repeat("x", MaxNameLen+1)},
		{UUID: redUUID, Name: "red", TableID: tableID(-1)},
	}
	for _, r := range bad {
		require.ErrorIs(t, r.Validate(), ErrInvalidRecord)
	}
}
