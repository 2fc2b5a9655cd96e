package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lista/internal/config"
	"lista/internal/storage"
	"lista/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeDetail
)

// row is what the list renders: one presented task plus its urgency tag, so
// the view never re-derives due-date logic.
type row struct {
	task    task.Task
	urgency task.Urgency
}

// formState is the create/edit modal. An empty id means create. Fields are
// edited through a single text input cycled with tab, like a form.
type formState struct {
	id       string
	title    string
	desc     string
	due      string
	subtasks string
	index    int
}

// grabState tracks a reorder gesture in progress: the provisional id order
// and the position of the grabbed task. The store is only told about the
// final order on drop.
type grabState struct {
	ids []string
	idx int
}

type Model struct {
	kv     *storage.Store
	list   *task.Store
	cfg    config.Config
	rows   []row
	cursor int
	mode   mode
	input  textinput.Model

	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
	grab       *grabState
	subCursor  int
	detailID   string
}

func Run(kv *storage.Store, cfg config.Config) error {
	tasks, err := kv.LoadTasks()
	if err != nil {
		return err
	}
	sortMode, err := kv.LoadSortMode()
	if err != nil {
		return err
	}

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		kv:     kv,
		list:   task.NewStore(tasks, sortMode),
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
	}
	m.refresh()

	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.grab != nil {
			return m.updateGrabMode(msg.String())
		}
		if m.mode == modeDetail {
			return m.updateDetailMode(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.rows) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.rows))
		}
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		if len(m.rows) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.rows[m.cursor].task
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		if len(m.rows) == 0 {
			return m, nil
		}
		if err := m.list.ToggleComplete(m.rows[m.cursor].task.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.commit("Toggled task")
	case m.cfg.Keys.Delete:
		if len(m.rows) == 0 {
			return m, nil
		}
		t := m.rows[m.cursor].task
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Detail:
		if len(m.rows) == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.mode = modeDetail
		m.detailID = m.rows[m.cursor].task.ID
		m.subCursor = 0
		m.status = "Details: j/k to move, space to toggle a sub-task, esc to go back"
	case m.cfg.Keys.Grab:
		return m.startGrab()
	case m.cfg.Keys.SortManual:
		return m.setSort(task.SortManual)
	case m.cfg.Keys.SortDueAsc:
		return m.setSort(task.SortDueAsc)
	case m.cfg.Keys.SortDueDesc:
		return m.setSort(task.SortDueDesc)
	case m.cfg.Keys.SortTitle:
		return m.setSort(task.SortTitleAsc)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.list.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			m.confirmDel = false
			m.pendingDel = nil
			return m, nil
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.commit("Deleted task")
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateDetailMode(key string) (tea.Model, tea.Cmd) {
	t, ok := m.list.Get(m.detailID)
	if !ok {
		m.mode = modeList
		m.refresh()
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc", m.cfg.Keys.Quit:
		m.mode = modeList
		m.status = "Back to list"
	case m.cfg.Keys.Down, "down":
		if m.subCursor < len(t.Subtasks)-1 {
			m.subCursor++
		}
	case m.cfg.Keys.Up, "up":
		if m.subCursor > 0 {
			m.subCursor--
		}
	case m.cfg.Keys.Toggle:
		if len(t.Subtasks) == 0 {
			return m, nil
		}
		// The checkbox value is supplied explicitly, not flipped by the store.
		next := !t.Subtasks[m.subCursor].Completed
		if err := m.list.SetSubtaskDone(t.ID, m.subCursor, next); err != nil {
			m.status = fmt.Sprintf("sub-task update failed: %v", err)
			return m, nil
		}
		m.commit("Updated sub-task")
	}
	return m, nil
}

func (m Model) startGrab() (tea.Model, tea.Cmd) {
	if m.list.Mode() != task.SortManual {
		m.status = "Reordering needs manual sort (press 1)"
		return m, nil
	}
	if len(m.rows) == 0 {
		return m, nil
	}
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.task.ID
	}
	m.grab = &grabState{ids: ids, idx: m.cursor}
	m.status = fmt.Sprintf("Moving \"%s\": j/k to move, enter to drop, esc to cancel", m.rows[m.cursor].task.Title)
	return m, nil
}

func (m Model) updateGrabMode(key string) (tea.Model, tea.Cmd) {
	g := m.grab
	switch key {
	case m.cfg.Keys.Down, "down":
		if g.idx < len(g.ids)-1 {
			g.ids[g.idx], g.ids[g.idx+1] = g.ids[g.idx+1], g.ids[g.idx]
			g.idx++
		}
	case m.cfg.Keys.Up, "up":
		if g.idx > 0 {
			g.ids[g.idx], g.ids[g.idx-1] = g.ids[g.idx-1], g.ids[g.idx]
			g.idx--
		}
	case m.cfg.Keys.Confirm, "enter":
		final := g.ids
		at := g.idx
		m.grab = nil
		if err := m.list.ReconcileOrder(final); err != nil {
			m.status = fmt.Sprintf("reorder failed: %v", err)
			m.refresh()
			return m, nil
		}
		m.cursor = at
		m.commit("Reordered tasks")
		return m, nil
	case m.cfg.Keys.Cancel, "esc":
		m.grab = nil
		m.refresh()
		m.status = "Reorder cancelled"
		return m, nil
	}
	m.rows = m.rowsForIDs(g.ids)
	m.cursor = clampCursor(g.idx, len(m.rows))
	return m, nil
}

func (m Model) setSort(mode task.SortMode) (tea.Model, tea.Cmd) {
	if err := m.list.SetSortMode(mode); err != nil {
		m.status = err.Error()
		return m, nil
	}
	status := "Sorted by " + sortLabel(mode)
	if err := m.kv.SaveSortMode(mode); err != nil {
		status = fmt.Sprintf("sort saved in memory only: %v", err)
	}
	m.refresh()
	m.status = status
	return m, nil
}

func (m Model) startForm(existing *task.Task) (tea.Model, tea.Cmd) {
	f := &formState{}
	if existing != nil {
		f.id = existing.ID
		f.title = existing.Title
		f.desc = existing.Description
		f.due = existing.DueDate.String()
		f.subtasks = joinSubtasks(existing.Subtasks)
	}
	m.form = f
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.Focus()
	m.mode = modeForm
	if existing == nil {
		m.status = "New task: tab to move between fields, enter to save, esc to cancel"
	} else {
		m.status = "Edit task: tab to move between fields, enter to save, esc to cancel"
	}
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "tab":
		f.setCurrentValue(m.input.Value())
		f.index = wrapIndex(f.index+1, len(formFields()))
		m.input.SetValue(f.currentValue())
		m.input.Placeholder = f.currentLabel()
		return m, nil
	case "shift+tab":
		f.setCurrentValue(m.input.Value())
		f.index = wrapIndex(f.index-1, len(formFields()))
		m.input.SetValue(f.currentValue())
		m.input.Placeholder = f.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		f.setCurrentValue(m.input.Value())
		if f.index >= len(formFields())-1 {
			return m.saveForm()
		}
		f.index++
		m.input.SetValue(f.currentValue())
		m.input.Placeholder = f.currentLabel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := strings.TrimSpace(f.title)
	if title == "" {
		// Non-empty titles are enforced here at the form boundary; the
		// store accepts whatever it is given.
		m.status = "Title cannot be empty"
		f.index = 0
		m.input.SetValue(f.title)
		m.input.Placeholder = f.currentLabel()
		return m, nil
	}
	due, err := task.ParseDate(strings.TrimSpace(f.due))
	if err != nil {
		m.status = fmt.Sprintf("due date invalid (use YYYY-MM-DD): %v", err)
		return m, nil
	}
	draft := task.Draft{
		Title:       title,
		Description: strings.TrimSpace(f.desc),
		DueDate:     due,
		Subtasks:    splitSubtasks(f.subtasks),
	}

	var focusID string
	status := "Saved task"
	if f.id == "" {
		focusID = m.list.Create(draft).ID
		status = "Added task"
	} else {
		focusID = f.id
		if err := m.list.Edit(f.id, draft); err != nil {
			m.form = nil
			m.mode = modeList
			m.input.Blur()
			m.status = fmt.Sprintf("edit failed: %v", err)
			m.refresh()
			return m, nil
		}
	}

	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.commit(status)
	for i, r := range m.rows {
		if r.task.ID == focusID {
			m.cursor = i
			break
		}
	}
	return m, nil
}

// commit persists the store and rebuilds the presented rows. On a failed
// write the in-memory state stands and the status says so; nothing is
// rolled back.
func (m *Model) commit(okStatus string) {
	if err := m.kv.SaveTasks(m.list.Tasks()); err != nil {
		okStatus = fmt.Sprintf("save failed, changes kept in memory: %v", err)
	}
	m.refresh()
	m.status = okStatus
}

func (m *Model) refresh() {
	m.rows = projectRows(m.list.Tasks(), m.list.Mode(), time.Now())
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

// projectRows is the outbound half of the view contract: the sorted task
// sequence with a per-task urgency tag, classified against the wall clock
// at render time.
func projectRows(tasks []task.Task, mode task.SortMode, now time.Time) []row {
	presented := task.Present(tasks, mode)
	rows := make([]row, len(presented))
	for i, t := range presented {
		rows[i] = row{task: t, urgency: task.Classify(t.DueDate, now)}
	}
	return rows
}

func (m Model) rowsForIDs(ids []string) []row {
	now := time.Now()
	rows := make([]row, 0, len(ids))
	for _, id := range ids {
		if t, ok := m.list.Get(id); ok {
			rows = append(rows, row{task: t, urgency: task.Classify(t.DueDate, now)})
		}
	}
	return rows
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Lista")
	b.WriteString("\n")
	b.WriteString("Sort: " + sortLabel(m.list.Mode()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString("No tasks yet. Press 'a' to add one.")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch {
	case m.form != nil:
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderTaskPanel())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, r := range m.rows {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = ">"
		}

		checkbox := "[ ]"
		if r.task.Completed {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, r.task.Title)
		if n := len(r.task.Subtasks); n > 0 {
			line += fmt.Sprintf(" (%d/%d)", doneSubtasks(r.task.Subtasks), n)
		}
		if !r.task.DueDate.IsZero() {
			line += " • due " + r.task.DueDate.Format("Jan 2, 2006")
			line += " [" + r.urgency.String() + "]"
		}
		if p := descPreview(r.task.Description); p != "" {
			line += " • " + p
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTaskPanel() string {
	if len(m.rows) == 0 {
		return "No task selected"
	}
	r := m.rows[clampCursor(m.cursor, len(m.rows))]
	var b strings.Builder
	b.WriteString("Task\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", r.task.Title))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(r.task.Completed)))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(r.task.DueDate.Format("Jan 2, 2006"))))
	if r.urgency != task.UrgencyNone {
		b.WriteString(fmt.Sprintf("Urgency     : %s\n", r.urgency))
	}
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(r.task.Description)))
	b.WriteString(fmt.Sprintf("Sub-tasks   : %d/%d done\n", doneSubtasks(r.task.Subtasks), len(r.task.Subtasks)))
	return b.String()
}

func (m Model) renderDetail() string {
	t, ok := m.list.Get(m.detailID)
	if !ok {
		return "Task is gone"
	}
	var b strings.Builder
	b.WriteString(t.Title + "\n")
	if t.Description != "" {
		b.WriteString(t.Description + "\n")
	}
	if len(t.Subtasks) == 0 {
		b.WriteString("(no sub-tasks)\n")
		return b.String()
	}
	b.WriteString("\n")
	for i, st := range t.Subtasks {
		cursor := " "
		if i == m.subCursor {
			cursor = ">"
		}
		checkbox := "[ ]"
		if st.Completed {
			checkbox = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, st.Text))
	}
	return b.String()
}

func (m Model) renderFormBox() string {
	f := m.form
	values := []string{f.title, f.desc, f.due, f.subtasks}
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == f.index {
			prefix = ">"
		}
		val := values[i]
		if i == f.index {
			val = m.input.Value()
		}
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, name, val))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s details • %s toggle • %s delete • %s reorder • %s-%s sort • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Detail, k.Toggle, k.Delete, k.Grab, k.SortManual, k.SortTitle, k.Quit)
}

func formFields() []string {
	return []string{"title", "description", "due date (YYYY-MM-DD)", "sub-tasks (separate with ;)"}
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	switch f.index {
	case 0:
		return f.title
	case 1:
		return f.desc
	case 2:
		return f.due
	case 3:
		return f.subtasks
	default:
		return ""
	}
}

func (f *formState) setCurrentValue(v string) {
	switch f.index {
	case 0:
		f.title = v
	case 1:
		f.desc = v
	case 2:
		f.due = v
	case 3:
		f.subtasks = v
	}
}

func sortLabel(mode task.SortMode) string {
	switch mode {
	case task.SortDueAsc:
		return "due date (earliest first)"
	case task.SortDueDesc:
		return "due date (latest first)"
	case task.SortTitleAsc:
		return "title"
	}
	return "manual"
}

func splitSubtasks(v string) []string {
	var labels []string
	for _, part := range strings.Split(v, ";") {
		if text := strings.TrimSpace(part); text != "" {
			labels = append(labels, text)
		}
	}
	return labels
}

func joinSubtasks(subs []task.Subtask) string {
	texts := make([]string, len(subs))
	for i, st := range subs {
		texts[i] = st.Text
	}
	return strings.Join(texts, "; ")
}

func descPreview(desc string) string {
	if desc == "" {
		return ""
	}
	words := strings.Fields(desc)
	if len(words) <= 5 {
		return desc
	}
	return strings.Join(words[:5], " ") + "..."
}

func doneSubtasks(subs []task.Subtask) int {
	n := 0
	for _, st := range subs {
		if st.Completed {
			n++
		}
	}
	return n
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
