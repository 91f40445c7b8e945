// Command vlistdemo is a small terminal program demonstrating the vlist
// virtualization engine: a scrollable, selectable, sectioned list over a
// generated data set with simulated paginated loading.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	iconfig "vlist/internal/config"
	"vlist/internal/renderer"
	"vlist/vlist"
	"vlist/vlist/features/asyncdata"
	"vlist/vlist/features/sections"
	"vlist/vlist/features/selection"
	"vlist/vlist/features/snapshot"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

type cliFlags struct {
	configPath string
	itemCount  int
	watch      bool
	version    bool
}

func parseFlags() *cliFlags {
	f := &cliFlags{}
	flag.StringVar(&f.configPath, "config", defaultConfigPath(), "Path to the demo's YAML config file")
	flag.IntVar(&f.itemCount, "items", 500, "Number of demo items to generate")
	flag.BoolVar(&f.watch, "watch-config", true, "Hot-reload the config file on change")
	flag.BoolVar(&f.version, "version", false, "Print version information and quit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vlistdemo - virtualized list demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  vlistdemo [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeyboard Shortcuts:\n")
		fmt.Fprintf(os.Stderr, "  j/k, up/down   - move\n")
		fmt.Fprintf(os.Stderr, "  g/G            - jump to top/bottom\n")
		fmt.Fprintf(os.Stderr, "  q, ctrl+c      - quit\n")
	}
	flag.Parse()
	return f
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vlistdemo", "config.yaml")
}

func main() {
	flags := parseFlags()
	if flags.version {
		fmt.Printf("vlistdemo version %s (commit: %s)\n", Version, Commit)
		os.Exit(0)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	loader := iconfig.NewLoader(flags.configPath)
	if err := loader.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if flags.watch {
		if err := loader.Watch(); err != nil {
			log.Printf("Config hot-reload disabled: %v", err)
		} else {
			defer loader.Close()
		}
	}

	m := newModel(loader, flags.itemCount)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}

// keyMap is the demo shell's own bindings, layered above the list's
// built-in navigation.
type keyMap struct {
	Quit key.Binding
	Help key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

type demoItem struct {
	id    string
	label string
}

func (d demoItem) ItemID() string { return d.id }

func generateItems(start, n int) []vlist.Item {
	out := make([]vlist.Item, n)
	for i := 0; i < n; i++ {
		idx := start + i
		out[i] = demoItem{
			id:    fmt.Sprintf("item-%d", idx),
			label: fmt.Sprintf("group-%d / row %d", idx/20, idx),
		}
	}
	return out
}

func sectionOf(id string) string {
	var n int
	fmt.Sscanf(id, "item-%d", &n)
	return fmt.Sprintf("group-%d", n/20)
}

// model is the top-level bubbletea program wrapping a vlist.List with a
// header/footer frame and a shell-level quit binding.
type model struct {
	list     *vlist.List
	keys     keyMap
	sections *sections.State
	showHelp bool
}

func newModel(loader *iconfig.Loader, itemCount int) *model {
	cfg := loader.Get()
	nextID := itemCount

	sec := &sections.State{}
	b := vlist.NewBuilder(vlist.Options{
		Items:            generateItems(0, itemCount),
		ItemSize:         1,
		Template:         renderDemoItem,
		Overscan:         cfg.List.Overscan,
		PoolCap:          cfg.List.PoolCapacity,
		MaxVirtualSize:   cfg.List.MaxVirtualSize,
		WheelSensitivity: cfg.Scroll.WheelSensitivity,
		WheelDisabled:    !cfg.Scroll.WheelEnabled,
		IdleTimeout:      cfg.Scroll.IdleTimeout(),
		SmoothDuration:   cfg.Scroll.SmoothDuration(),
		ContainerHeight:  24,
		ContainerWidth:   80,
	})
	b.Use(selection.Feature(selection.Options{Mode: selection.Multi}))
	b.Use(sections.Feature(sections.Options{SectionOf: sectionOf}, sec))
	b.Use(snapshot.Feature())
	b.Use(asyncdata.Feature(asyncdata.Options{
		Prefetch: 0.1,
		Loader: func(ctx context.Context, before bool) ([]vlist.Item, error) {
			time.Sleep(150 * time.Millisecond) // simulate network latency
			if before {
				return nil, nil // demo data set has no earlier page
			}
			items := generateItems(nextID, 100)
			nextID += 100
			return items, nil
		},
	}))

	l, err := b.Build()
	if err != nil {
		log.Fatalf("Failed to build list: %v", err)
	}
	return &model{list: l, keys: defaultKeyMap(), sections: sec}
}

func renderDemoItem(item renderer.Item, index int, state *renderer.TemplateState) string {
	d, ok := item.(demoItem)
	if !ok {
		return item.ItemID()
	}
	return fmt.Sprintf("%4d  %s", index, d.label)
}

func (m *model) Init() tea.Cmd { return m.list.Init() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.list.Destroy()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	updated, cmd := m.list.Update(msg)
	m.list = updated.(*vlist.List)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("vlist demo — %s", m.sections.Current))
	footer := footerStyle.Render("j/k move · ? help · q quit")
	if m.showHelp {
		footer = footerStyle.Render("up/down/j/k move, pgup/pgdn page, g/G top/bottom, q quit")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), footer)
}
