package cmd

import (
	"github.com/MERAprojects/ops-utils/vrf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var moveReq vrf.MoveRequest

// move subcommand
var move = &cobra.Command{
	Use:   "move",
	Short: "Move an interface from one namespace into another",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := client.MoveInterface(moveReq); err != nil {
			return err
		}
		z.Info("Sent interface move request",
			zap.String("ifname", moveReq.IfName), zap.String("from", moveReq.SourceNS), zap.String("to", moveReq.DestNS))
		return nil
	},
}

func init() {
	move.Flags().StringVar(&moveReq.SourceNS, "from", "", "namespace the interface is in")
	move.Flags().StringVar(&moveReq.DestNS, "to", "", "namespace to move the interface into")
	move.Flags().StringVarP(&moveReq.IfName, "ifname", "i", "", "interface name")
	_ = move.MarkFlagRequired("from")
	_ = move.MarkFlagRequired("to")
	_ = move.MarkFlagRequired("ifname")
	root.AddCommand(move)
}
