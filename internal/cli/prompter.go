package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

// Answer records how the user resolved one clarification question.
type Answer struct {
	QuestionID string
	FreeText   string
	Selected   *model.QuestionOption
	Skipped    bool
}

// Prompter walks the user through the generated clarification questions on
// the terminal, in their generated order.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter over the given reader and writer.
// Nil arguments default to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// AskQuestions presents each question in order and collects answers.
// Question and option ordering are preserved verbatim.
func (p *Prompter) AskQuestions(ctx context.Context, questions model.Questions) ([]Answer, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	fmt.Fprintln(p.writer, FormatTitle(fmt.Sprintf("%s Clarification needed (%d questions)", QuestionIcon, len(questions))))

	answers := make([]Answer, 0, len(questions))
	for i, q := range questions {
		answer, err := p.askOne(ctx, i+1, len(questions), q)
		if err != nil {
			return answers, err
		}
		answers = append(answers, answer)
	}

	return answers, nil
}

func (p *Prompter) askOne(ctx context.Context, num, total int, q model.Question) (Answer, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%d/%d] %s\n", num, total, PromptStyle.Render(q.Text)))
	if q.Context != "" {
		b.WriteString(SubtleStyle.Render(q.Context) + "\n")
	}
	for i, opt := range q.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt.Label)
		if opt.DutyRate != "" {
			line += fmt.Sprintf(" (duty %s)", opt.DutyRate)
		}
		if opt.Implication != "" {
			line += "\n     " + SubtleStyle.Render(opt.Implication)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintln(p.writer, BoxStyle.Render(b.String()))

	if len(q.Options) > 0 {
		fmt.Fprint(p.writer, FormatPrompt("Choose an option, type an answer, or 's' to skip: "))
	} else {
		fmt.Fprint(p.writer, FormatPrompt("Type an answer, or 's' to skip: "))
	}

	input, err := p.reader.ReadLine(ctx)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to read answer: %w", err)
	}

	answer := Answer{QuestionID: q.ID}
	switch {
	case strings.EqualFold(input, "s") || input == "":
		answer.Skipped = true
	default:
		if n, convErr := strconv.Atoi(input); convErr == nil && n >= 1 && n <= len(q.Options) {
			opt := q.Options[n-1]
			answer.Selected = &opt
		} else {
			answer.FreeText = input
		}
	}

	return answer, nil
}

// NewVerifyProgress builds the progress bar shown during batch
// verification.
func NewVerifyProgress(total int, writer io.Writer) *progressbar.ProgressBar {
	if writer == nil {
		writer = os.Stdout
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Verifying candidates...[reset]"),
	)
}
