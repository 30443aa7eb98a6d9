// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/jrhoades1/job-application-system/internal/apps"
)

// Triage actions.
const (
	ActionApply = "apply"
	ActionSkip  = "skip"
	ActionDefer = "defer"
	ActionQuit  = "quit"
)

var triageActions = []string{ActionApply, ActionSkip, ActionDefer, ActionQuit}

// selector abstracts the interactive prompt so triage logic is testable
// without a terminal.
type selector interface {
	Select(label string, items []string) (string, error)
}

type promptSelector struct{}

func (promptSelector) Select(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items, Size: len(items)}
	_, choice, err := prompt.Run()
	return choice, err
}

// Triage walks the user through the pending leads of a review queue.
// "apply" moves the application to to_apply, "skip" to skipped, "defer"
// leaves it pending. The queue's lead statuses are updated in place.
type Triage struct {
	Index *apps.Index

	// prompt is replaced in tests; nil means the interactive prompt.
	prompt selector
}

// Result counts triage decisions.
type Result struct {
	Applied  int
	Skipped  int
	Deferred int
}

// Run triages every pending lead in q, writing a one-line summary per
// decision to w. Quitting mid-queue leaves the remaining leads pending.
func (t *Triage) Run(q *Queue, w io.Writer) (Result, error) {
	sel := t.prompt
	if sel == nil {
		sel = promptSelector{}
	}

	var result Result
	for i := range q.Leads {
		lead := &q.Leads[i]
		if lead.Status != "pending_review" {
			continue
		}

		label := fmt.Sprintf("[%d] %s: %s (%s, %.1f%%)",
			lead.Rank, lead.Company, lead.Role, lead.Score.Overall, lead.Score.MatchPercentage)
		if len(lead.RedFlags) > 0 {
			label += " [RED FLAGS]"
		}

		choice, err := sel.Select(label, triageActions)
		if err != nil {
			// ^C or ^D ends the session without losing prior decisions.
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return result, nil
			}
			return result, fmt.Errorf("triage prompt: %w", err)
		}

		switch strings.ToLower(choice) {
		case ActionApply:
			if err := t.updateStatus(lead, apps.StatusToApply); err != nil {
				return result, err
			}
			result.Applied++
			fmt.Fprintf(w, "  to apply: %s / %s\n", lead.Company, lead.Role)
		case ActionSkip:
			if err := t.updateStatus(lead, apps.StatusSkipped); err != nil {
				return result, err
			}
			result.Skipped++
			fmt.Fprintf(w, "  skipped: %s / %s\n", lead.Company, lead.Role)
		case ActionDefer:
			result.Deferred++
			fmt.Fprintf(w, "  deferred: %s / %s\n", lead.Company, lead.Role)
		case ActionQuit:
			return result, nil
		}
	}
	return result, nil
}

func (t *Triage) updateStatus(lead *QueueLead, status string) error {
	lead.Status = status
	if lead.ApplicationFolder == "" {
		return nil
	}
	if err := t.Index.UpdateStatus(lead.ApplicationFolder, status); err != nil {
		return fmt.Errorf("updating index for %s: %w", lead.ApplicationFolder, err)
	}
	return nil
}
