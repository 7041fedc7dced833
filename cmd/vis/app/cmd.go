package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/torven/breaker"
)

const version = "1.0.0"

// Options holds the flag values that configure the visualized breaker.
type Options struct {
	Buckets        int
	SpanSeconds    int
	MinEvalSize    int
	ErrorThreshold float64
	RetrySeconds   int
	TrialSuccesses int
}

func (o Options) breakerOptions() []breaker.Option {
	return []breaker.Option{
		breaker.WithCapacity(o.Buckets),
		breaker.WithSpan(time.Duration(o.SpanSeconds) * time.Second),
		breaker.WithMinEvalSize(o.MinEvalSize),
		breaker.WithErrorThreshold(o.ErrorThreshold),
		breaker.WithRetryTimeout(time.Duration(o.RetrySeconds) * time.Second),
		breaker.WithTrialSuccesses(o.TrialSuccesses),
	}
}

// Cmd builds the root command for the visualizer.
func Cmd() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:     "vis [flags]",
		Short:   "Interactive circuit breaker visualization and testing tool",
		Version: version,
		Long: `vis renders a live terminal view of a rolling-window circuit breaker.

Press 's' to report a success and 'f' to report a failure, then watch
the window buckets fill, expire, and trip the circuit. The view is
built entirely on the breaker's read-only accessors; all decision
logic stays in the breaker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Buckets, "buckets", "b", 5, "number of buckets in the rolling window")
	cmd.Flags().IntVarP(&opts.SpanSeconds, "span", "s", 10, "duration in seconds each bucket covers")
	cmd.Flags().IntVarP(&opts.MinEvalSize, "min-eval", "m", 10, "minimum completed observations before the error rate is evaluated")
	cmd.Flags().Float64VarP(&opts.ErrorThreshold, "threshold", "e", 10.0, "error rate percentage above which the circuit opens")
	cmd.Flags().IntVarP(&opts.RetrySeconds, "retry", "r", 30, "seconds the circuit stays open before probing")
	cmd.Flags().IntVarP(&opts.TrialSuccesses, "trials", "t", 5, "consecutive successes required in half-open to close the circuit")

	return cmd
}
