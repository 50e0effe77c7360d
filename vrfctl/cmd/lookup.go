package cmd

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/MERAprojects/ops-utils/vrf"
	"github.com/MERAprojects/ops-utils/vrfstore"
)

var (
	lookupName    string
	lookupTableID int64
	lookupUUID    string
	lookupDefault bool
)

type lookupResult struct {
	vrfstore.Record
	Namespace string `json:"namespace"`
}

// lookup subcommand
var lookup = &cobra.Command{
	Use:   "lookup",
	Short: "Find a vrf record and the namespace it maps to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec, err := findRecord(cmd)
		if err != nil {
			return err
		}

		naming, err := vrf.ParseNaming(config.NamespaceNaming)
		if err != nil {
			return err
		}
		ns, err := vrf.NamespaceName(rec, naming)
		if err != nil {
			return err
		}

		return printJSON(lookupResult{Record: *rec, Namespace: ns})
	},
}

func findRecord(cmd *cobra.Command) (*vrfstore.Record, error) {
	switch {
	case lookupDefault:
		return vrfstore.FindByName(store, config.DefaultVRFName)
	case lookupName != "":
		return vrfstore.FindByName(store, lookupName)
	case cmd.Flags().Changed("table-id"):
		return vrfstore.FindByTableID(store, lookupTableID)
	case lookupUUID != "":
		id, err := uuid.Parse(lookupUUID)
		if err != nil {
			return nil, errors.Wrapf(vrf.ErrInvalidArgument, "uuid %q: %v", lookupUUID, err)
		}
		return vrfstore.FindByUUID(store, id)
	}

	return nil, errors.Wrap(vrf.ErrInvalidArgument, "one of --name, --table-id, --uuid or --default is required")
}

func init() {
	lookup.Flags().StringVar(&lookupName, "name", "", "vrf name")
	lookup.Flags().Int64Var(&lookupTableID, "table-id", 0, "routing table id")
	lookup.Flags().StringVar(&lookupUUID, "uuid", "", "vrf uuid")
	lookup.Flags().BoolVar(&lookupDefault, "default", false, "look up the default vrf")
	root.AddCommand(lookup)
}
