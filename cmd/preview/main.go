// preview: type a name and watch its colour update on every key
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/TheEpicBlock/mid-journey/encoder"
	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/oklab"
	"github.com/TheEpicBlock/mid-journey/pipeline"
	"github.com/TheEpicBlock/mid-journey/utils"
)

var (
	configFile = flag.String("config", "", "Model config JSON file")
	paramsFile = flag.String("params", "", "Model parameters JSON file")
	demoInput  = flag.Int("demo-input", 16, "Input length of the demo model")
	demoLayers = flag.String("demo-layers", "32 3", "Layer sizes of the demo model")
	seed       = flag.Uint64("seed", 1, "Seed for the demo model")
	verbose    = flag.Bool("verbose", false, "Verbose output")
)

func logf(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[PREVIEW] "+format+"\n", args...)
	}
}

func main() {
	flag.Parse()

	m, err := loadModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logf("Model: input length %d, layers %v", m.Config.InputLength, m.Config.Layers)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	p := &previewer{
		screen: screen,
		pred:   pipeline.New(m),
		line:   newLineEditor(encoder.MaxChars(m.Config.InputLength)),
	}
	p.run()
}

func loadModel() (*model.Model, error) {
	if *configFile == "" && *paramsFile == "" {
		layers, err := utils.ParseLayers(*demoLayers)
		if err != nil {
			return nil, err
		}
		opts := &utils.Options{InputLength: *demoInput, Layers: layers, Seed: *seed}
		if err := utils.ValidateOptions(opts); err != nil {
			return nil, err
		}
		logf("No model files. Using a random demo model (seed %d)", *seed)
		return model.Random(model.Config{InputLength: opts.InputLength, Layers: opts.Layers}, opts.Seed)
	}
	return model.LoadFiles(*configFile, *paramsFile)
}

type previewer struct {
	screen tcell.Screen
	pred   *pipeline.Predictor
	line   *lineEditor
}

func (p *previewer) run() {
	p.draw()
	for {
		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventResize:
			p.screen.Sync()
			p.draw()
		case *tcell.EventKey:
			if !p.handleKey(ev) {
				return
			}
			p.draw()
		case nil:
			return
		}
	}
}

// handleKey edits the line and reports whether the previewer should keep running.
func (p *previewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlD, tcell.KeyEscape:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		p.line.Backspace()
	case tcell.KeyCtrlU:
		p.line.Clear()
	case tcell.KeyRune:
		p.line.Insert(ev.Rune())
	}
	return true
}

func (p *previewer) draw() {
	s := p.screen
	s.Clear()
	width, _ := s.Size()

	res := p.pred.Predict(p.line.String())
	r, g, b := res.RGB.Components()
	swatch := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	plain := tcell.StyleDefault

	for y := 0; y < 3; y++ {
		for x := 0; x < width; x++ {
			s.SetContent(x, y, ' ', nil, swatch)
		}
	}

	prompt := fmt.Sprintf("> %s", p.line.String())
	drawText(s, 0, 4, plain, prompt)
	drawText(s, 0, 5, plain.Dim(true), fmt.Sprintf("%d/%d", p.line.Len(), p.line.max))
	drawText(s, 0, 7, plain, res.RGB.Hex())
	drawText(s, 0, 8, plain, formatScaled(res.Scaled))
	drawText(s, 0, 10, plain.Dim(true), "Esc / Ctrl-C / Ctrl-D quit, Ctrl-U clear")
	s.ShowCursor(len([]rune(prompt)), 4)
	s.Show()
}

func formatScaled(c oklab.Scaled) string {
	return fmt.Sprintf("L %.4f  a %.4f  b %.4f", c.L, c.A, c.B)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
