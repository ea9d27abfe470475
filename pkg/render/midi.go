package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDI defaults
const (
	DefaultTicksPerQuarter = 480
	DefaultProgram         = 0 // Acoustic Grand Piano
	DefaultMIDIFile        = "dna_song.mid"

	// largest microseconds per quarter a set tempo event can hold
	maxTempoMicros = 0xFFFFFF
)

// MIDIRenderer writes a score as a single track Standard MIDI File
type MIDIRenderer struct {
	Path            string
	TicksPerQuarter uint16
	Velocity        uint8
	Program         uint8
	Channel         uint8
}

// NewMIDIRenderer creates a MIDI renderer writing to path
func NewMIDIRenderer(path string) *MIDIRenderer {
	if path == "" {
		path = DefaultMIDIFile
	}
	return &MIDIRenderer{
		Path:            path,
		TicksPerQuarter: DefaultTicksPerQuarter,
		Velocity:        DefaultVelocity,
		Program:         DefaultProgram,
	}
}

// Render encodes s and writes it to the renderer's path
func (m *MIDIRenderer) Render(s *score.Score, tempo int) error {
	data, err := m.Encode(s, tempo)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

// trackEvent is a message at an absolute tick. At equal ticks lower
// priorities are written first so a note ends before the next one starts.
type trackEvent struct {
	tick     uint32
	priority int
	msg      []byte
}

// Encode returns s as Standard MIDI File bytes
func (m *MIDIRenderer) Encode(s *score.Score, tempo int) ([]byte, error) {
	tl, err := BuildTimeline(s, tempo, m.Velocity)
	if err != nil {
		return nil, err
	}
	if 60000000/tempo > maxTempoMicros {
		return nil, fmt.Errorf("tempo %d bpm is too slow for a MIDI set tempo event", tempo)
	}

	tpq := m.TicksPerQuarter
	if tpq == 0 {
		tpq = DefaultTicksPerQuarter
	}
	spb := SecondsPerBeat(tempo)
	toTicks := func(seconds float64) uint32 {
		return uint32(math.Round(seconds / spb * float64(tpq)))
	}

	var events []trackEvent
	for _, at := range tl.Markers {
		events = append(events, trackEvent{tick: toTicks(at), priority: 0, msg: smf.MetaMarker("bar")})
	}
	for _, n := range tl.Notes {
		start, end := toTicks(n.Start), toTicks(n.End)
		events = append(events,
			trackEvent{tick: start, priority: 2, msg: midi.NoteOn(m.Channel, n.Key, n.Velocity)},
			trackEvent{tick: end, priority: 1, msg: midi.NoteOff(m.Channel, n.Key)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].priority < events[j].priority
	})

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(tpq)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(trackName(s)))
	track.Add(0, smf.MetaTempo(float64(tempo)))
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, midi.ProgramChange(m.Channel, m.Program))

	var current uint32
	for _, ev := range events {
		track.Add(ev.tick-current, ev.msg)
		current = ev.tick
	}

	// Pad to the full length so trailing rests survive
	if total := toTicks(tl.Length); total > current {
		track.Close(total - current)
	} else {
		track.Close(0)
	}

	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

func trackName(s *score.Score) string {
	if s.Tonic == "" {
		return "DNA"
	}
	return fmt.Sprintf("DNA in %s %s", s.Tonic, s.Mode)
}

// Playback is what ReadMIDI recovers from a MIDI file
type Playback struct {
	Tempo           float64     `json:"tempo"`
	TicksPerQuarter uint16      `json:"ticks_per_quarter"`
	Notes           []TimedNote `json:"notes"`
	Markers         int         `json:"markers"`
}

// ReadMIDIFile reads a MIDI file from disk
func ReadMIDIFile(filename string) (*Playback, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return ReadMIDI(data)
}

// ReadMIDI parses MIDI data back into timed notes. A single tempo is
// assumed for the whole file.
func ReadMIDI(data []byte) (p *Playback, err error) {
	// smf can panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("failed to parse MIDI: %v", r)
		}
	}()

	sm, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	p = &Playback{Tempo: 120.0, TicksPerQuarter: DefaultTicksPerQuarter}
	if mt, ok := sm.TimeFormat.(smf.MetricTicks); ok {
		p.TicksPerQuarter = mt.Resolution()
	}
	if p.TicksPerQuarter == 0 {
		return nil, errors.New("failed to parse MIDI: zero resolution")
	}

	type pending struct {
		tick     int64
		velocity uint8
	}
	type span struct {
		key        uint8
		velocity   uint8
		start, end int64
	}

	var spans []span
	open := make(map[uint8][]pending)

	for _, track := range sm.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			// Tempo meta message: FF 51 03 tt tt tt
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				usPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if usPerBeat > 0 {
					p.Tempo = 60000000.0 / float64(usPerBeat)
				}
				continue
			}
			// Marker meta message: FF 06
			if len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x06 {
				p.Markers++
				continue
			}
			if len(msg) < 3 {
				continue
			}

			status, key, velocity := msg[0], msg[1], msg[2]
			switch {
			case status >= 0x90 && status <= 0x9F && velocity > 0:
				open[key] = append(open[key], pending{tick: tick, velocity: velocity})
			case (status >= 0x80 && status <= 0x8F) || (status >= 0x90 && status <= 0x9F):
				queue := open[key]
				if len(queue) == 0 {
					continue
				}
				spans = append(spans, span{key: key, velocity: queue[0].velocity, start: queue[0].tick, end: tick})
				open[key] = queue[1:]
			}
		}
	}

	secondsPerTick := 60.0 / p.Tempo / float64(p.TicksPerQuarter)
	for _, sp := range spans {
		p.Notes = append(p.Notes, TimedNote{
			Key:      sp.key,
			Name:     theory.PitchName(sp.key),
			Start:    float64(sp.start) * secondsPerTick,
			End:      float64(sp.end) * secondsPerTick,
			Velocity: sp.velocity,
		})
	}
	sort.SliceStable(p.Notes, func(i, j int) bool {
		if p.Notes[i].Start != p.Notes[j].Start {
			return p.Notes[i].Start < p.Notes[j].Start
		}
		return p.Notes[i].Key < p.Notes[j].Key
	})

	return p, nil
}
