package cmd

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MERAprojects/ops-utils/vrf"
	"github.com/MERAprojects/ops-utils/vrfstore"
)

var (
	putUUID    string
	putName    string
	putTableID int64
)

// vrf subcommand
var vrfCmd = &cobra.Command{
	Use:   "vrf",
	Short: "Manage the vrf record file",
}

// withStoreLock runs fn holding the store's lock file.
func withStoreLock(fn func() error) error {
	if err := store.Lock(true); err != nil {
		return errors.Wrapf(err, "failed to lock %s", store.Path())
	}
	defer func() {
		if err := store.Unlock(false); err != nil {
			z.Error("Failed to unlock vrf store", zap.String("path", store.Path()), zap.Error(err))
		}
	}()

	return fn()
}

var vrfPut = &cobra.Command{
	Use:   "put",
	Short: "Add or replace a vrf record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec := vrfstore.Record{Name: putName}

		if putUUID == "" {
			rec.UUID = uuid.New()
		} else {
			id, err := uuid.Parse(putUUID)
			if err != nil {
				return errors.Wrapf(vrf.ErrInvalidArgument, "uuid %q: %v", putUUID, err)
			}
			rec.UUID = id
		}

		if cmd.Flags().Changed("table-id") {
			table := putTableID
			rec.TableID = &table
		}

		if err := withStoreLock(func() error { return store.Put(rec) }); err != nil {
			return err
		}

		z.Info("Stored vrf record", zap.String("name", rec.Name), zap.Stringer("uuid", rec.UUID))
		return printJSON(rec)
	},
}

var vrfDelete = &cobra.Command{
	Use:   "delete UUID",
	Short: "Remove a vrf record",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return errors.Wrapf(vrf.ErrInvalidArgument, "uuid %q: %v", args[0], err)
		}

		return withStoreLock(func() error { return store.Delete(id) })
	},
}

var vrfList = &cobra.Command{
	Use:   "list",
	Short: "Print every vrf record",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		records, err := store.Records()
		if err != nil {
			return err
		}
		if records == nil {
			records = []vrfstore.Record{}
		}
		return printJSON(records)
	},
}

func init() {
	vrfPut.Flags().StringVar(&putUUID, "uuid", "", "record uuid, generated when empty")
	vrfPut.Flags().StringVar(&putName, "name", "", "vrf name")
	vrfPut.Flags().Int64Var(&putTableID, "table-id", 0, "routing table id")
	_ = vrfPut.MarkFlagRequired("name")

	vrfCmd.AddCommand(vrfPut, vrfDelete, vrfList)
	root.AddCommand(vrfCmd)
}
