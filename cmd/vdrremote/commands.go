package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vdrremote",
		Short:         "Query and remote-control a VDR over SVDRP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	a.bindFlags(root.PersistentFlags())

	root.AddCommand(
		channelCmd(a),
		channelsCmd(a),
		diskCmd(a),
		timersCmd(a),
		recordingCmd(a),
		epgCmd(a),
		zapCmd(a, "up", "Switch to the next channel", true),
		zapCmd(a, "down", "Switch to the previous channel", false),
		statusCmd(a),
		nowCmd(a),
		guideCmd(a),
		serveCmd(a),
		versionCmd(a),
	)
	return root
}

func channelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channel",
		Short: "Show the current channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, ok := a.client.GetCurrentChannel(cmd.Context())
			if !ok {
				return domain.ErrNoData
			}
			return a.print(ch)
		},
	}
}

func channelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List all channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chs := a.client.GetChannels(cmd.Context())
			if len(chs) == 0 {
				return domain.ErrNoData
			}
			return a.print(chs)
		},
	}
}

func diskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disk",
		Short: "Show video disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stat, ok := a.client.GetDiskStat(cmd.Context())
			if !ok {
				return domain.ErrNoData
			}
			return a.print(stat)
		},
	}
}

func timersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timers",
		Short: "List timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timers := a.client.GetTimers(cmd.Context())
			if len(timers) == 0 {
				// An empty list is a valid answer from a reachable device.
				if !a.client.IsOnline(cmd.Context()) {
					return domain.ErrNoData
				}
				timers = []domain.Timer{}
			}
			return a.print(timers)
		},
	}
}

type recordingOutput struct {
	State domain.RecordingState
	Timer *domain.Timer `json:",omitempty" yaml:",omitempty"`
}

func recordingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recording",
		Short: "Show what is being recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, ok := a.client.GetRecordingTimer(cmd.Context())
			out := recordingOutput{State: domain.RecordingStateOf(tm, ok)}
			if ok {
				out.Timer = &tm
			}
			return a.print(out)
		},
	}
}

func epgCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "epg <channel> [now|next|at <time>]",
		Short: "Show the EPG of one channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epg := a.client.GetEPG(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if len(epg) == 0 {
				return domain.ErrNoData
			}
			return a.print(epg)
		},
	}
}

func zapCmd(a *app, use, short string, up bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reply string
			if up {
				reply = a.client.ChannelUp(cmd.Context())
			} else {
				reply = a.client.ChannelDown(cmd.Context())
			}
			if reply == "" {
				return domain.ErrNoData
			}
			_, err := fmt.Fprintln(a.stdout, reply)
			return err
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a device status snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.status.Snapshot(cmd.Context())
			if err := a.print(st); err != nil {
				return err
			}
			if !st.Online {
				return domain.ErrNoData
			}
			return nil
		},
	}
}

func nowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Show the event running on the current channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			np, ok := a.guide.NowPlaying(cmd.Context())
			if !ok {
				return domain.ErrNoData
			}
			return a.print(np)
		},
	}
}

func guideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guide [now|next|at <time>]",
		Short: "Fetch the EPG of every channel, one channel at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			guides := a.guide.Sweep(cmd.Context(), strings.Join(args, " "))
			if len(guides) == 0 {
				return domain.ErrNoData
			}
			return a.print(guides)
		},
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.stdout, "vdrremote-go v%s (%s %s)\n", version, commit, date)
			return err
		},
	}
}
