package speech

import (
	"bytes"
	"context"
	"errors"
	"time"

	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// ErrNoAudio is returned when no turn of a script could be voiced.
var ErrNoAudio = errors.New("no audio generated")

// Synthesizer voices a piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Narrator voices a whole script, one voice per host.
type Narrator struct {
	synth       Synthesizer
	voices      map[string]string
	concurrency int
	log         *logger.Entry
}

// NewNarrator maps Host A and Host B to voice IDs and voices at most
// concurrency turns at a time.
func NewNarrator(synth Synthesizer, hostAVoice, hostBVoice string, concurrency int) *Narrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Narrator{
		synth:       synth,
		voices:      map[string]string{HostA: hostAVoice, HostB: hostBVoice},
		concurrency: concurrency,
		log:         logger.Component("narrator"),
	}
}

// Narrate voices every turn of script and concatenates the MP3 segments in
// script order. Turns that fail are skipped.
func (n *Narrator) Narrate(ctx context.Context, script string) ([]byte, error) {
	turns := ParseScript(script)
	if len(turns) == 0 {
		return nil, ErrNoAudio
	}

	start := time.Now()
	segments := make([][]byte, len(turns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)
	for i, turn := range turns {
		g.Go(func() error {
			audio, err := n.synth.Synthesize(gctx, turn.Text, n.voices[turn.Host])
			if err != nil {
				metrics.SpeechSegments.WithLabelValues("failed").Inc()
				n.log.WithFields(logger.Fields{"turn": i, "host": turn.Host}).Warnf("Error generating audio: %v", err)
				return nil
			}
			metrics.SpeechSegments.WithLabelValues("ok").Inc()
			segments[i] = audio
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// MP3 frames are self-delimiting, so segments can be joined byte-wise.
	combined := bytes.Join(segments, nil)
	if len(combined) == 0 {
		return nil, ErrNoAudio
	}

	n.log.WithFields(logger.Fields{
		"turns":    len(turns),
		"bytes":    len(combined),
		"duration": time.Since(start).String(),
	}).Debug("Narrated script")
	return combined, nil
}
