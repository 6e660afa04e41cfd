package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

// Draft form input indices.
const (
	inputTitle = iota
	inputDescription
	inputDate
	inputTime
	inputCount
)

var inputLabels = [inputCount]string{"Title", "Description", "Date", "Time"}

// tuiModel renders Board state and forwards key presses to Board intents.
type tuiModel struct {
	board *core.Board

	inputs      []textinput.Model
	activeInput int
	focus       focusArea
	cursor      int

	width  int
	height int

	status string
	err    error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	filterActive   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("230"))
	filterInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	taskDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true)
	taskPending = lipgloss.NewStyle()
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTUIModel(board *core.Board) tuiModel {
	inputs := make([]textinput.Model, inputCount)
	placeholders := [inputCount]string{"What needs doing?", "optional", "YYYY-MM-DD", "HH:MM"}
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		inputs[i] = ti
	}
	inputs[inputDate].CharLimit = 10
	inputs[inputTime].CharLimit = 5

	return tuiModel{
		board:  board,
		inputs: inputs,
		focus:  focusList,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.board.IsDetailOpen() {
			return m.updateDetail(msg)
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m tuiModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "v":
		m.board.CloseDetails()
	}
	return m, nil
}

func (m tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.board.VisibleTasks()
	m.err = nil

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "f":
		m.board.SetFilter(m.board.CurrentFilter().Next())
		m.cursor = 0
	case "tab", "a", "n":
		return m.focusForm()
	case " ", "space":
		if task, ok := m.selected(visible); ok {
			if _, err := m.board.ToggleComplete(task.ID); err != nil {
				m.err = err
			}
		}
	case "e":
		if task, ok := m.selected(visible); ok {
			m.board.EditTask(task)
			m.loadDraft()
			m.status = fmt.Sprintf("Editing task %d", task.ID)
			return m.focusForm()
		}
	case "d", "x":
		if task, ok := m.selected(visible); ok {
			m.board.DeleteTask(task.ID)
			m.status = fmt.Sprintf("Deleted %q", task.Title)
		}
	case "enter", "v":
		if task, ok := m.selected(visible); ok {
			m.board.ViewDetails(task)
		}
	}

	m.clampCursor()
	return m, nil
}

func (m tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputs[m.activeInput].Blur()
		m.focus = focusList
		return m, nil
	case "tab", "down":
		return m.cycleInput(1)
	case "shift+tab", "up":
		return m.cycleInput(-1)
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
	m.pushText()
	return m, cmd
}

// submit pushes every draft field into the board and commits it.
func (m tuiModel) submit() (tea.Model, tea.Cmd) {
	m.err = nil
	date, err := parseDateArg(m.inputs[inputDate].Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	clock, err := parseClockArg(m.inputs[inputTime].Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.pushText()
	m.board.SetDraftDate(date)
	m.board.SetDraftTime(clock)

	res, err := m.board.AddOrUpdateTask()
	switch {
	case err != nil:
		m.err = err
	case res.Action == core.SubmitIgnored:
		m.err = core.ErrEmptyTitle
		return m, nil
	case res.Action == core.SubmitCreated:
		m.status = fmt.Sprintf("Added %q", res.Task.Title)
	case res.Action == core.SubmitUpdated:
		m.status = fmt.Sprintf("Updated %q", res.Task.Title)
	}

	m.loadDraft()
	m.inputs[m.activeInput].Blur()
	m.activeInput = inputTitle
	m.focus = focusList
	m.clampCursor()
	return m, nil
}

func (m tuiModel) focusForm() (tea.Model, tea.Cmd) {
	m.focus = focusForm
	m.activeInput = inputTitle
	return m, m.inputs[inputTitle].Focus()
}

func (m tuiModel) cycleInput(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.activeInput].Blur()
	m.activeInput = (m.activeInput + delta + inputCount) % inputCount
	return m, m.inputs[m.activeInput].Focus()
}

// pushText forwards the free-text inputs to the draft.
func (m tuiModel) pushText() {
	m.board.SetDraftTitle(m.inputs[inputTitle].Value())
	m.board.SetDraftDescription(m.inputs[inputDescription].Value())
}

// loadDraft copies the board's draft into the inputs.
func (m *tuiModel) loadDraft() {
	d := m.board.CurrentDraft()
	m.inputs[inputTitle].SetValue(d.Title)
	m.inputs[inputDescription].SetValue(d.Description)
	m.inputs[inputDate].SetValue("")
	m.inputs[inputTime].SetValue("")
	if d.Date != nil {
		m.inputs[inputDate].SetValue(d.Date.String())
	}
	if d.Time != nil {
		m.inputs[inputTime].SetValue(d.Time.String())
	}
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
}

func (m tuiModel) selected(visible []models.Task) (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.board.VisibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" taskpad "))
	b.WriteString("  ")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	if m.board.IsDetailOpen() {
		b.WriteString(activePanelStyle.Render(m.renderDetail()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: close"))
		return b.String()
	}

	listPanel, formPanel := panelStyle, panelStyle
	if m.focus == focusList {
		listPanel = activePanelStyle
	} else {
		formPanel = activePanelStyle
	}
	width := m.width - 4
	if width < 30 {
		width = 30
	}
	b.WriteString(listPanel.Width(width).Render(m.renderList()))
	b.WriteString("\n")
	b.WriteString(formPanel.Width(width).Render(m.renderForm()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.focus == focusForm {
		b.WriteString(helpStyle.Render("tab: next field | enter: save | esc: back to list"))
	} else {
		b.WriteString(helpStyle.Render("j/k: move | space: toggle | e: edit | d: delete | enter: details | f: filter | a: add | q: quit"))
	}
	return b.String()
}

func (m tuiModel) renderFilters() string {
	parts := make([]string, len(models.FilterModes))
	for i, mode := range models.FilterModes {
		style := filterInactive
		if mode == m.board.CurrentFilter() {
			style = filterActive
		}
		parts[i] = style.Render(string(mode))
	}
	return strings.Join(parts, "  ")
}

func (m tuiModel) renderList() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n")

	visible := m.board.VisibleTasks()
	if len(visible) == 0 {
		b.WriteString("  No tasks.")
		return b.String()
	}
	for i, t := range visible {
		prefix := "  "
		if i == m.cursor && m.focus == focusList {
			prefix = cursorStyle.Render("> ")
		}
		style := taskPending
		if t.Completed {
			style = taskDone
		}
		line := checkbox(t) + " " + t.Title
		if w := when(t); w != "" {
			line += "  " + helpStyle.Render(w)
		}
		b.WriteString(prefix + style.Render(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderForm() string {
	var b strings.Builder
	heading := "New task"
	if editing := m.board.EditingTask(); editing != nil {
		heading = fmt.Sprintf("Edit task %d", editing.ID)
	}
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n")
	for i, in := range m.inputs {
		fmt.Fprintf(&b, "  %-12s %s\n", inputLabels[i]+":", in.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderDetail() string {
	t := m.board.SelectedTask()
	if t == nil {
		return ""
	}
	return headerStyle.Render(t.Title) + "\n\n" + strings.TrimRight(formatTaskDetail(*t), "\n")
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Long: `Open a full-screen task list.

Navigate with j/k, toggle with space, edit with e, delete with d, view
details with enter, cycle the filter with f, and add a task with a.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Board == nil {
			return errBoardNotInitialized
		}
		p := tea.NewProgram(newTUIModel(Board), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
