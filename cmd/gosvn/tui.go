package main

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/client"
	"github.com/gosvn/gosvn/svnerr"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	letterStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
)

type (
	// notifyMsg is one working-copy notification from the checkout.
	notifyMsg gosvn.Notify

	// progressMsg reports network bytes. total is -1 when unknown.
	progressMsg struct {
		bytes int64
		total int64
	}

	// checkoutDoneMsg ends the program.
	checkoutDoneMsg struct {
		rev gosvn.Revnum
		err error
	}
)

type checkoutModel struct {
	url    string
	target string

	spin     spinner.Model
	events   <-chan tea.Msg
	cancel   func()
	files    int
	lastPath string
	bytes    int64

	cancelling bool
	done       bool
	rev        gosvn.Revnum
	err        error
}

func newCheckoutModel(url, target string, events <-chan tea.Msg, cancel func()) checkoutModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return checkoutModel{url: url, target: target, spin: s, events: events, cancel: cancel}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

func (m checkoutModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

func (m checkoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notifyMsg:
		if msg.Action == gosvn.NotifyAdd || msg.Action == gosvn.NotifyUpdateAdd {
			m.files++
		}
		m.lastPath = msg.Path
		return m, waitForEvent(m.events)

	case progressMsg:
		m.bytes = msg.bytes
		return m, waitForEvent(m.events)

	case checkoutDoneMsg:
		m.done = true
		m.rev = msg.rev
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Quitting here would tear down the context's pool under
		// the in-flight native call. ctrl+c only flips the cancel
		// flag; the program exits when the checkout reports done.
		if msg.Type == tea.KeyCtrlC && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
	}
	return m, nil
}

func (m checkoutModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("gosvn checkout"))
	b.WriteString(dimStyle.Render("  " + m.url))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			fmt.Fprintf(&b, "%s %v\n", errStyle.Render("error:"), m.err)
		} else {
			fmt.Fprintf(&b, "%s revision %s, %d files into %s\n",
				successStyle.Render("checked out"), m.rev, m.files, pathStyle.Render(m.target))
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%s %d files", m.spin.View(), m.files)
	if m.bytes > 0 {
		fmt.Fprintf(&b, ", %s", formatBytes(m.bytes))
	}
	b.WriteString("\n")
	if m.lastPath != "" {
		fmt.Fprintf(&b, "%s %s\n", letterStyle.Render("»"), pathStyle.Render(m.lastPath))
	}
	if m.cancelling {
		b.WriteString(errStyle.Render("\ncancelling...\n"))
	} else {
		b.WriteString(dimStyle.Render("\nctrl+c to cancel\n"))
	}
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// runCheckoutTUI drives the checkout from a goroutine and feeds its
// notifications into a bubbletea program. It does not return until the
// native checkout has finished; the caller closes the client context,
// and destroying its pool under an in-flight call would be a
// use-after-free.
func runCheckoutTUI(c *client.Context, url, target string, opts client.CheckoutOpts) error {
	events := make(chan tea.Msg, 64)
	done := make(chan checkoutDoneMsg, 1)

	var cancelled atomic.Bool
	if err := c.SetCancel(func() error {
		if cancelled.Load() {
			return svnerr.Cancel()
		}
		return nil
	}); err != nil {
		return err
	}
	if err := c.SetNotify(func(n gosvn.Notify) {
		events <- notifyMsg(n)
	}); err != nil {
		return err
	}
	if err := c.SetProgress(func(progress, total int64) {
		select {
		case events <- progressMsg{bytes: progress, total: total}:
		default:
			// Progress is advisory; dropping one keeps the
			// native thread from blocking on the UI.
		}
	}); err != nil {
		return err
	}

	go func() {
		rev, err := c.Checkout(url, target, opts)
		d := checkoutDoneMsg{rev: rev, err: err}
		done <- d
		events <- d
	}()

	model := newCheckoutModel(url, target, events, func() { cancelled.Store(true) })
	final, runErr := tea.NewProgram(model).Run()

	m, _ := final.(checkoutModel)
	if !m.done {
		// The program ended early (renderer error, force quit).
		// Cancel the native call and drain until it returns.
		cancelled.Store(true)
		for !m.done {
			select {
			case d := <-done:
				m.done, m.rev, m.err = true, d.rev, d.err
			case <-events:
			}
		}
	}
	if runErr != nil {
		return runErr
	}
	return m.err
}
