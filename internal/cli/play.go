package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chapter-quiz-service/internal/app"
	"chapter-quiz-service/internal/config"
	"chapter-quiz-service/internal/domain"
	"github.com/spf13/cobra"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
)

// NewPlayCmd plays a session in the terminal against the configured catalog.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		chapters   string
		categories string
		userID     string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			service, cleanup, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			numbers, err := parseChapterFlag(chapters)
			if err != nil {
				return err
			}
			sel := domain.Selection{ChapterNumbers: numbers, CategoryIDs: splitFlag(categories)}
			if len(sel.ChapterNumbers) == 0 {
				if err := printChapters(cmd.Context(), service, sel.CategoryIDs, cmd.OutOrStdout()); err != nil {
					return err
				}
				return fmt.Errorf("pick at least one chapter with --chapters")
			}
			return playLoop(cmd.Context(), service, userID, sel, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&chapters, "chapters", "", "comma-separated chapter numbers")
	cmd.Flags().StringVar(&categories, "categories", "", "comma-separated category ids")
	cmd.Flags().StringVar(&userID, "user", "cli", "user id answers are recorded under")
	return cmd
}

func printChapters(ctx context.Context, service *app.PlayService, categoryIDs []string, out io.Writer) error {
	chapters, err := service.Chapters(ctx, categoryIDs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Available chapters:")
	for _, ch := range chapters {
		fmt.Fprintf(out, "  %3d  %s\n", ch.Number, ch.Description)
	}
	return nil
}

// playLoop drives one session from line-based input until the player quits
// or input runs out.
func playLoop(ctx context.Context, service *app.PlayService, userID string, sel domain.Selection, in io.Reader, out io.Writer) error {
	view, err := service.Start(ctx, userID, sel)
	if err != nil {
		return err
	}
	defer service.End(ctx, view.SessionID)

	scanner := bufio.NewScanner(in)
	for {
		switch {
		case view.Empty:
			fmt.Fprintln(out, "No questions for this selection.")
			return nil

		case view.Complete:
			printSummary(out, view)
			fmt.Fprint(out, "[r] restart  [w] replay wrong answers  [q] quit: ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "r":
				view, err = service.Reset(ctx, view.SessionID, false)
			case "w":
				view, err = service.Reset(ctx, view.SessionID, true)
			case "q":
				return nil
			}
			if err != nil {
				return err
			}

		case view.Revealed:
			fmt.Fprint(out, "Press enter to continue ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			if view, err = service.Advance(ctx, view.SessionID); err != nil {
				return err
			}

		default:
			question := view.Question
			printQuestion(out, view)
			if !scanner.Scan() {
				return scanner.Err()
			}
			idx, ok := letterIndex(scanner.Text(), len(question.Answers))
			if !ok {
				fmt.Fprintln(out, "Pick one of the listed letters.")
				continue
			}
			outcome, next, err := service.SubmitAnswer(ctx, view.SessionID, question.Answers[idx].ID)
			if err != nil {
				return err
			}
			if outcome.Applied {
				printOutcome(out, question, outcome.Correct, outcome.CorrectAnswerID)
			}
			view = next
		}
	}
}

func printQuestion(out io.Writer, view app.View) {
	q := view.Question
	fmt.Fprintf(out, "\n%s[%d/%d] Chapter %d: %s%s\n", colorBold, view.Position+1, view.Total, q.Chapter.Number, q.Chapter.Description, colorReset)
	fmt.Fprintln(out, q.Text)
	if q.ImageURL != "" {
		fmt.Fprintf(out, "(image: %s)\n", q.ImageURL)
	}
	for i, a := range q.Answers {
		fmt.Fprintf(out, "  %c) %s\n", 'A'+i, a.Text)
	}
	fmt.Fprint(out, "Your answer: ")
}

func printOutcome(out io.Writer, question *app.QuestionView, correct bool, correctID string) {
	if correct {
		fmt.Fprintf(out, "%sCorrect!%s\n", colorGreen, colorReset)
		return
	}
	for i, a := range question.Answers {
		if a.ID == correctID {
			fmt.Fprintf(out, "%sWrong.%s The answer was %c) %s\n", colorRed, colorReset, 'A'+i, a.Text)
			return
		}
	}
	fmt.Fprintf(out, "%sWrong.%s\n", colorRed, colorReset)
}

func printSummary(out io.Writer, view app.View) {
	summary := view.Summary
	if summary == nil {
		return
	}
	fmt.Fprintf(out, "\n%sResults%s\n", colorBold, colorReset)
	for i, item := range summary.Items {
		mark := colorGreen + "ok" + colorReset
		if !item.Answered || !item.Entry.Correct {
			mark = colorRed + "xx" + colorReset
		}
		fmt.Fprintf(out, "%2d. %s %s\n", i+1, mark, item.Question.Text)
		if item.Answered && !item.Entry.Correct {
			fmt.Fprintf(out, "      you: %s\n", item.Entry.ChosenAnswer)
		}
		fmt.Fprintf(out, "      answer: %s\n", item.CorrectAnswer.Text)
	}
	fmt.Fprintf(out, "You answered %d of %d correctly (%d%%).\n", summary.Score, summary.Total, summary.Percent)
}

// letterIndex maps "a", "B", ... to an answer index.
func letterIndex(raw string, n int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 1 {
		return 0, false
	}
	c := raw[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	idx := int(c) - 'A'
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

func parseChapterFlag(raw string) ([]int, error) {
	var out []int
	for _, part := range splitFlag(raw) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid chapter %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitFlag(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
