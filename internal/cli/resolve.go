package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/staticroute/internal/harness"
	"github.com/roach88/staticroute/internal/location"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Codec  string // "fallback" | "direct"
	Encode bool   // print the fallback form of a logical location
}

// ResolveResult is the resolve command's output payload.
type ResolveResult struct {
	Path     string `json:"path"`
	Search   string `json:"search"`
	URL      string `json:"url"`
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// String renders the text output.
func (r ResolveResult) String() string {
	if r.Degraded {
		return fmt.Sprintf("%s (degraded: %s)", r.URL, r.Reason)
	}
	return r.URL
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <pathname> [search]",
		Short: "Decode a raw address into the logical location",
		Long: `Decode a raw address the way the client router does on first load.

Malformed addresses degrade to the root location. With --encode the
arguments are a logical location and the fallback form is printed instead.

Examples:
  staticroute resolve / '?/dashboard&tab=2'      # /dashboard?tab=2
  staticroute resolve --codec direct /dashboard
  staticroute resolve --encode /a&b '?q=1'         # /?/a~and~b&q=1`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Codec, "codec", harness.CodecFallback, "initial decoding (fallback|direct)")
	cmd.Flags().BoolVar(&opts.Encode, "encode", false, "encode a logical location into the fallback form")

	return cmd
}

func runResolve(opts *ResolveOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	raw := location.RawLocation{Pathname: args[0]}
	if len(args) == 2 {
		raw.Search = args[1]
	}

	if opts.Encode {
		loc := location.LogicalLocation{Path: raw.Pathname, Search: raw.Search}
		encoded := location.Encode(loc)
		return formatter.Success(ResolveResult{
			Path:   loc.Path,
			Search: loc.Search,
			URL:    encoded.Pathname + encoded.Search,
		})
	}

	var codec location.Codec
	switch opts.Codec {
	case harness.CodecFallback:
		codec = location.Fallback{}
	case harness.CodecDirect:
		codec = location.Direct{}
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("unknown codec %q", opts.Codec), nil, nil)
	}

	loc, err := location.Resolve(codec, raw)
	result := ResolveResult{Path: loc.Path, Search: loc.Search, URL: loc.String()}
	var decodeErr *location.DecodeError
	if errors.As(err, &decodeErr) {
		result.Degraded = true
		result.Reason = decodeErr.Reason
	}
	return formatter.Success(result)
}
