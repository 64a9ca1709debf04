// Package tui provides terminal user interface components for nitroctl.
//
// This package uses the Bubble Tea framework to create interactive terminal
// interfaces: an instance picker and a config editor.
//
// # Instance Picker
//
// The picker displays instances grouped by running state and allows selection:
//
//	result, err := tui.RunPicker(instances)
//	switch result.Action {
//	case tui.ActionLaunch:
//	    // Launch result.Instance
//	case tui.ActionEdit:
//	    // Open the config editor for result.Instance
//	case tui.ActionStop:
//	    // Stop result.Instance
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Config Editor
//
// The editor edits one config record through an open session. Fields left
// blank show the value inherited from parent templates as a placeholder.
// Ctrl+S saves through the session; plugin-provided configs render
// read-only and refuse saves.
//
//	saved, err := tui.RunEditor(sess)
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
