package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asticode/go-asticlip"
	"github.com/asticode/go-asticlip/azure"
	"github.com/asticode/go-astilog"
	asticonfig "github.com/asticode/go-astitools/config"
	"github.com/pkg/errors"
)

// Flags
var (
	batchOnly  = flag.Bool("b", false, "runs the batch without prompting")
	configPath = flag.String("c", "", "the config path")
	inputDir   = flag.String("i", "", "the input directory path")
	key        = flag.String("k", "", "the speech service key")
	outputDir  = flag.String("o", "", "the output directory path")
	region     = flag.String("r", "", "the speech service region")
	testFile   = flag.String("f", "", "the test file path")
	testOnly   = flag.Bool("t", false, "only processes the test file")
)

func main() {
	// Parse flags
	flag.Parse()
	astilog.FlagInit()

	// Init configuration
	c := newConfiguration()

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	handleSignals(cancel)

	// Create recognizer. The keyword aliases are provided as phrase hints to
	// bias recognition toward the expected vocabulary.
	c.Azure.Phrases = c.Processor.Keywords.Aliases()
	r := azure.New(c.Azure)

	// Create processor
	p := asticlip.New(r, c.Processor)
	astilog.Infof("main: %d keyword labels configured: %s", len(c.Processor.Keywords.Labels()), strings.Join(c.Processor.Keywords.Labels(), ", "))

	// Choose mode
	if *testOnly || (!*batchOnly && promptTestOnly()) {
		// Process the test file only
		fr, err := p.ProcessFile(ctx, c.Processor.TestFilePath, 1)
		if err != nil {
			astilog.Fatal(errors.Wrapf(err, "main: processing test file %s failed", c.Processor.TestFilePath))
		}
		printFileResult(fr)
		return
	}

	// Process the batch
	rs, err := p.ProcessBatch(ctx)
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: processing batch failed"))
	}

	// Print summary
	fmt.Println(asticlip.NewSummary(rs))
}

// Configuration represents a configuration
type Configuration struct {
	Azure     azure.Options    `toml:"azure"`
	Processor asticlip.Options `toml:"processor"`
}

// newConfiguration creates a new configuration
func newConfiguration() *Configuration {
	// Global config
	gc := &Configuration{
		Azure: azure.Options{
			Language: "en-US",
		},
		Processor: asticlip.Options{
			BitDepth:     16,
			InputDirPath: "input",
			Keywords: asticlip.KeywordTable{
				{Alias: "turn on", Label: "TURN_ON"},
				{Alias: "switch on", Label: "TURN_ON"},
				{Alias: "turn off", Label: "TURN_OFF"},
				{Alias: "switch off", Label: "TURN_OFF"},
				{Alias: "play music", Label: "PLAY_MUSIC"},
				{Alias: "stop music", Label: "STOP_MUSIC"},
			},
			NumChannels:        1,
			PaddingMs:          200,
			RecognitionTimeout: 15 * time.Second,
			Quality: asticlip.QualityCheckerOptions{
				MaxDurationMs:    5000,
				MaxSilenceMs:     500,
				MinDurationMs:    300,
				MinLevel:         -35,
				SilenceThreshold: 0.01,
			},
			SampleRate:     16000,
			SpeakerStartID: 1,
			Speed: asticlip.SpeedClassifierOptions{
				FastThreshold: 2.0,
				SlowThreshold: 1.0,
			},
			TestFilePath: "test.wav",
			Writer: asticlip.WriterOptions{
				OutputDirPath: "output",
			},
		},
	}

	// Flag config
	fc := &Configuration{
		Azure: azure.Options{
			Key:    *key,
			Region: *region,
		},
		Processor: asticlip.Options{
			InputDirPath: *inputDir,
			TestFilePath: *testFile,
			Writer: asticlip.WriterOptions{
				OutputDirPath: *outputDir,
			},
		},
	}

	// Build configuration
	c, err := asticonfig.New(gc, *configPath, fc)
	if err != nil {
		astilog.Fatal(err)
	}
	return c.(*Configuration)
}

func handleSignals(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch)
	go func() {
		for s := range ch {
			astilog.Debugf("main: received signal %s", s)
			if s == syscall.SIGABRT || s == syscall.SIGKILL || s == syscall.SIGINT || s == syscall.SIGQUIT || s == syscall.SIGTERM {
				cancel()
			}
		}
	}()
}

func promptTestOnly() bool {
	fmt.Print("Process test file only? (y/n): ")
	s, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(s)) == "y"
}

func printFileResult(r asticlip.FileResult) {
	fmt.Printf("\nTest file results:\n")
	fmt.Printf("input file: %s\n", r.InputPath)
	fmt.Printf("keyword segments: %d\n", len(r.Segments))
	for _, s := range r.Segments {
		fmt.Printf("  #%03d %s (speed: %s, text: %q)\n", s.Index, s.Keyword, s.Speed, s.Text)
	}
	fmt.Printf("saved files: %d\n", len(r.SavedFiles))
	for _, f := range r.SavedFiles {
		fmt.Printf("  %s\n", f.Path)
	}
	fmt.Println("verifications:")
	for _, v := range r.Verifications {
		status := "failed"
		if v.IsValid {
			status = "passed"
		}
		fmt.Printf("  %s: %s (expected: %s, recognized: %q)\n", v.Path, status, v.ExpectedKeyword, v.RecognizedText)
	}
}
