package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"dis6502/internal/disasm"
	"dis6502/internal/ui/colorize"
)

type viewModel struct {
	viewport viewport.Model
	title    string
	listing  string
	width    int
	height   int
}

func newViewModel(title string, stream disasm.Stream) viewModel {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(22)

	m := viewModel{
		viewport: vp,
		title:    title,
		listing:  colorize.Listing(stream),
		width:    80,
		height:   24,
	}
	m.viewport.SetContent(m.listing)
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true).
		Padding(0, 1)

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return titleStyle.Render(m.title) + "\n" +
		m.viewport.View() + "\n" +
		menuStyle.Render(" ↑/↓: scroll • g/G: top/bottom • Q: quit ")
}

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Browse the listing of a binary image interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		img, err := readInput(args[0])
		if err != nil {
			return err
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}
		stream, err := disasm.Disassemble(table, img.Data, disasm.Full(img.Data))
		if err != nil {
			return err
		}

		title := fmt.Sprintf("%s  %d bytes  %d instructions", filepath.Base(img.Name), len(img.Data), len(stream))
		program := tea.NewProgram(
			newViewModel(title, stream),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}
