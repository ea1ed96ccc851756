package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trivia-client/internal/app"
	"trivia-client/internal/domain"
)

type playOptions struct {
	pair    string
	explain bool
}

func (o *playOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pair, "pair", "", "similar question pair to score, as two 1-based numbers: 2,7")
	cmd.Flags().BoolVar(&o.explain, "explain", false, "ask the AI to explain each answer")
}

func NewPlayCmd(configPath *string) *cobra.Command {
	var category, subDomain string
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz for one category and sub-domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := parsePair(opts.pair)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				flow, err := rt.service.SelectCategory(cmd.Context(), category, subDomain)
				if err != nil {
					return err
				}
				return runQuiz(cmd.Context(), rt.service, flow, cmd.InOrStdin(), cmd.OutOrStdout(), app.ReviewOptions{Pair: pair, Explain: opts.explain})
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&subDomain, "sub-domain", "", "sub-domain name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("sub-domain")
	opts.bind(cmd)
	return cmd
}

func NewRandomCmd(configPath *string) *cobra.Command {
	var categories []string
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Play a mixed quiz from your preferred (or given) categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := parsePair(opts.pair)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				flow, err := rt.service.StartRandomQuiz(cmd.Context(), categories)
				if err != nil {
					return err
				}
				return runQuiz(cmd.Context(), rt.service, flow, cmd.InOrStdin(), cmd.OutOrStdout(), app.ReviewOptions{Pair: pair, Explain: opts.explain})
			})
		},
	}
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "categories to mix (default: your preferences)")
	opts.bind(cmd)
	return cmd
}

// runQuiz asks every question on out, reads answers from in and prints the
// review. Answers are a letter (A, B, ...) or the option text.
func runQuiz(ctx context.Context, service *app.Service, flow *app.QuizFlow, in io.Reader, out io.Writer, opts app.ReviewOptions) error {
	if notice := flow.Notice(); notice != "" {
		fmt.Fprintln(out, notice)
	}
	reader := bufio.NewReader(in)
	for {
		q, i, err := flow.Current()
		if errors.Is(err, domain.ErrQuizComplete) {
			break
		}
		if err != nil {
			return err
		}
		printQuestion(out, q, i, flow.Total())

		line, readErr := reader.ReadString('\n')
		choice := strings.TrimSpace(line)
		if choice == "" && readErr != nil {
			return fmt.Errorf("quiz aborted: %w", readErr)
		}
		if _, err := answer(flow, q, choice); err != nil {
			fmt.Fprintln(out, "Please choose one of the listed options.")
		}
	}

	review, err := service.Review(ctx, flow, opts)
	if err != nil {
		return err
	}
	printReview(out, review)
	return nil
}

func printQuestion(out io.Writer, q domain.Question, i, total int) {
	fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", i+1, total, q.Question)
	for j, o := range q.Options {
		fmt.Fprintf(out, "  %c. %s\n", 'A'+j, o)
	}
	fmt.Fprint(out, "> ")
}

func answer(flow *app.QuizFlow, q domain.Question, choice string) (bool, error) {
	if len(choice) == 1 {
		c := strings.ToUpper(choice)[0]
		if c >= 'A' && int(c-'A') < len(q.Options) {
			return flow.AnswerIndex(int(c - 'A'))
		}
	}
	for _, o := range q.Options {
		if strings.EqualFold(o, choice) {
			return flow.Answer(o)
		}
	}
	return false, domain.ErrInvalidOption
}

func printReview(out io.Writer, review app.Review) {
	fmt.Fprintf(out, "\nQuiz Completed! Score: %d/%d\n", review.Correct, review.Total)
	for _, item := range review.Items {
		mark := "✗"
		if item.Correct {
			mark = "✓"
		}
		fmt.Fprintf(out, "\n%s Q%d: %s\n", mark, item.Index+1, item.Question)
		fmt.Fprintf(out, "   Your answer: %s\n", item.UserAnswer)
		fmt.Fprintf(out, "   Correct answer: %s\n", item.CorrectAnswer)
		if item.Explanation != "" {
			fmt.Fprintf(out, "   %s\n", strings.ReplaceAll(item.Explanation, "\n", "\n   "))
		}
	}
	if review.Pair != nil {
		fmt.Fprintf(out, "\nSimilar pair Q%d & Q%d: %s (+%d)\n", review.Pair.First+1, review.Pair.Second+1, review.Pair.Status, review.Pair.Increment)
		if !review.PairSubmitted {
			fmt.Fprintln(out, "Pair score could not be saved.")
		}
	}
	if review.PairNotice != "" {
		fmt.Fprintf(out, "\nSimilar pair skipped: %s\n", review.PairNotice)
	}
}

// parsePair reads "i,j" with 1-based numbers and returns 0-based indices.
func parsePair(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, domain.ErrInvalidPair
	}
	pair := make([]int, 2)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, domain.ErrInvalidPair
		}
		pair[i] = n - 1
	}
	return pair, nil
}
