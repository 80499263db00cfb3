// Command specaudio renders an audio recipe to a WAV file.
//
//	specaudio -spec recipe.json -out sound.wav [-seed 42] [-loop-report] [-play]
//
// The recipe is the JSON params object of an audio_v1 asset. The seed flag
// overrides the recipe's seed; -play streams the result to the system audio
// device after rendering.
package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/SpecCade/SpecCade-sub003/pkg/engine"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
	"github.com/SpecCade/SpecCade-sub003/pkg/wav"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("specaudio: ")

	specPath := flag.String("spec", "", "path to the JSON recipe")
	outPath := flag.String("out", "out.wav", "output WAV path")
	seed := flag.Int64("seed", -1, "override the recipe seed (default: use the recipe's)")
	loopReport := flag.Bool("loop-report", false, "print loop point metadata")
	play := flag.Bool("play", false, "play the rendered audio")
	flag.Parse()

	if *specPath == "" {
		log.Fatal("missing -spec")
	}

	data, err := os.ReadFile(*specPath)
	if err != nil {
		log.Fatalf("read spec: %v", err)
	}
	var s spec.AudioSpec
	if err := json.Unmarshal(data, &s); err != nil {
		log.Fatalf("parse spec: %v", err)
	}
	if *seed >= 0 {
		s.Seed = uint32(*seed)
	}

	start := time.Now()
	res, err := engine.Render(context.Background(), &s)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("rendered %d samples at %d Hz in %v (peak %.4f)",
		len(res.Left), res.SampleRate, time.Since(start).Round(time.Millisecond), res.Peak)

	if err := wav.WriteFile(*outPath, res.Left, res.Right, res.SampleRate); err != nil {
		log.Fatalf("write wav: %v", err)
	}
	log.Printf("wrote %s", *outPath)

	if *loopReport {
		if res.HasLoop {
			log.Printf("loop_start=%d loop_end=%d", res.LoopStart, res.LoopEnd)
		} else {
			log.Print("no loop points")
		}
	}

	if *play {
		if err := playback(res); err != nil {
			log.Fatalf("playback: %v", err)
		}
	}
}

// playback streams the finished render to the default audio device.
func playback(res *engine.Result) error {
	frames := wav.ToPCM16Interleaved(res.Left, res.Right)
	raw := make([]byte, len(frames)*2)
	for i, f := range frames {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(f))
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   res.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(raw))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
