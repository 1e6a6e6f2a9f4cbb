package rehearsal

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Print writes a plain-text timeline of the run to w.
func Print(w io.Writer, r *Report, verbose bool) error {
	phases := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PHASE", "AT")
	for _, m := range r.Marks {
		phases.Row(m.Phase.String(), seconds(m.At))
	}

	_, err := fmt.Fprintf(w, "seed %d  signal %s  coherence %s\n%s\n"+
		"signed at %s, second signature refused: %t\n"+
		"signatures %d (user %d), stability %.3f (%d%%), %q\n"+
		"%d frames, %s simulated in %s, %d timers pending after stop\n",
		r.Seed, r.Signal, r.Coherence, phases.Render(),
		seconds(r.SignedAt), r.DoubleSignRefused,
		len(r.Signatures), r.UserSignatures, r.Stability, r.Percent, r.Status,
		r.Frames, seconds(r.Simulated), r.Wall.Round(time.Millisecond), r.PendingAfterStop,
	)
	if err != nil || !verbose || len(r.Signatures) == 0 {
		return err
	}

	sigs := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "KIND", "X", "Y", "AT")
	for i, s := range r.Signatures {
		sigs.Row(strconv.Itoa(i+1), s.ID, s.Kind(),
			strconv.FormatFloat(s.X, 'f', 3, 64),
			strconv.FormatFloat(s.Y, 'f', 3, 64),
			seconds(s.Timestamp))
	}
	_, err = fmt.Fprintln(w, sigs.Render())
	return err
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64) + "s"
}
