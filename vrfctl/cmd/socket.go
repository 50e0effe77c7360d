package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/MERAprojects/ops-utils/vrf"
)

var (
	socketFamilies = map[string]int{
		"inet":    unix.AF_INET,
		"inet6":   unix.AF_INET6,
		"netlink": unix.AF_NETLINK,
		"unix":    unix.AF_UNIX,
	}
	socketTypes = map[string]int{
		"stream": unix.SOCK_STREAM,
		"dgram":  unix.SOCK_DGRAM,
		"raw":    unix.SOCK_RAW,
	}

	probeNS       string
	probeTableID  int64
	probeFamily   string
	probeType     string
	probeProtocol int
)

// socketParams turns flag names into socket(2) arguments.
func socketParams(family, sotype string, protocol int) (vrf.SocketParams, error) {
	f, ok := socketFamilies[family]
	if !ok {
		return vrf.SocketParams{}, errors.Wrapf(vrf.ErrInvalidArgument, "unknown socket family %q", family)
	}
	t, ok := socketTypes[sotype]
	if !ok {
		return vrf.SocketParams{}, errors.Wrapf(vrf.ErrInvalidArgument, "unknown socket type %q", sotype)
	}
	return vrf.SocketParams{Family: f, Type: t, Protocol: protocol}, nil
}

type probeResult struct {
	Namespace string `json:"namespace,omitempty"`
	TableID   *int64 `json:"table_id,omitempty"`
	Fd        int    `json:"fd"`
}

// probe-socket subcommand
var probeSocket = &cobra.Command{
	Use:   "probe-socket",
	Short: "Open a socket inside a namespace and close it again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := socketParams(probeFamily, probeType, probeProtocol)
		if err != nil {
			return err
		}

		res := probeResult{Namespace: probeNS}
		byTable := cmd.Flags().Changed("table-id")

		switch {
		case byTable && probeNS != "":
			return errors.Wrap(vrf.ErrInvalidArgument, "--ns and --table-id are exclusive")
		case byTable:
			res.TableID = &probeTableID
			if res.Fd, err = client.OpenSocketForVRF(probeTableID, p); err != nil {
				return err
			}
			err = client.CloseSocketForVRF(probeTableID, res.Fd)
		case probeNS != "":
			if res.Fd, err = client.OpenSocket(probeNS, p); err != nil {
				return err
			}
			err = client.CloseSocket(probeNS, res.Fd)
		default:
			return errors.Wrap(vrf.ErrInvalidArgument, "one of --ns or --table-id is required")
		}
		if err != nil {
			return err
		}

		return printJSON(res)
	},
}

func init() {
	probeSocket.Flags().StringVar(&probeNS, "ns", "", "namespace name")
	probeSocket.Flags().Int64Var(&probeTableID, "table-id", 0, "routing table id of the vrf")
	probeSocket.Flags().StringVar(&probeFamily, "family", "inet", "socket family [inet,inet6,netlink,unix]")
	probeSocket.Flags().StringVar(&probeType, "type", "dgram", "socket type [stream,dgram,raw]")
	probeSocket.Flags().IntVar(&probeProtocol, "protocol", 0, "socket protocol")
	root.AddCommand(probeSocket)
}
