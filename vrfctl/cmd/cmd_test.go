package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/MERAprojects/ops-utils/vrf"
	"github.com/MERAprojects/ops-utils/vrfstore"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	out = buf
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.Bytes()
}

func TestVRFRecordCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VRF_CONFIG", filepath.Join(dir, "missing.json"))
	storePath := filepath.Join(dir, "vrf.json")

	var rec vrfstore.Record
	require.NoError(t, json.Unmarshal(run(t, "vrf", "put", "--store", storePath, "--name", "red", "--table-id", "5"), &rec))
	require.Equal(t, "red", rec.Name)
	require.Equal(t, int64(5), *rec.TableID)

	var records []vrfstore.Record
	require.NoError(t, json.Unmarshal(run(t, "vrf", "list", "--store", storePath), &records))
	require.Len(t, records, 1)
	require.Equal(t, rec.UUID, records[0].UUID)

	var found lookupResult
	require.NoError(t, json.Unmarshal(run(t, "lookup", "--store", storePath, "--naming", "table-id", "--name", "red"), &found))
	require.Equal(t, "VRF_5", found.Namespace)
	require.Equal(t, rec.UUID, found.UUID)

	run(t, "vrf", "delete", "--store", storePath, rec.UUID.String())

	records = nil
	require.NoError(t, json.Unmarshal(run(t, "vrf", "list", "--store", storePath), &records))
	require.Empty(t, records)
}

func TestSocketParams(t *testing.T) {
	p, err := socketParams("inet6", "stream", 0)
	require.NoError(t, err)
	require.Equal(t, vrf.SocketParams{Family: unix.AF_INET6, Type: unix.SOCK_STREAM}, p)

	_, err = socketParams("ipx", "stream", 0)
	require.ErrorIs(t, err, vrf.ErrInvalidArgument)

	_, err = socketParams("inet", "seqpacket", 0)
	require.ErrorIs(t, err, vrf.ErrInvalidArgument)
}
