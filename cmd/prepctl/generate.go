package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions, an explanation, or resume questions",
	Long: `Generate runs one request through the same pipeline as the API.

  prepctl generate --role "Backend Developer" --experience "3 years" --topics "Node.js, MongoDB" -n 5
  prepctl generate --explain "What is event loop in Node.js?"
  prepctl generate --resume cv.pdf --experience "5 years" --job-title "Data Engineer"`,
	RunE: runGenerate,
}

var (
	genRole       string
	genExperience string
	genTopics     string
	genJobTitle   string
	genResume     string
	genExplain    string
	genCount      int
)

func init() {
	generateCmd.Flags().StringVar(&genRole, "role", "", "Target role")
	generateCmd.Flags().StringVar(&genExperience, "experience", "", "Candidate experience")
	generateCmd.Flags().StringVar(&genTopics, "topics", "", "Topics to focus on")
	generateCmd.Flags().StringVar(&genJobTitle, "job-title", "", "Job title for resume questions")
	generateCmd.Flags().StringVar(&genResume, "resume", "", "Resume or job description file (pdf, docx, doc, txt)")
	generateCmd.Flags().StringVar(&genExplain, "explain", "", "Explain a single question instead of generating a list")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 0, "Number of questions")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	generator, _, err := services.NewProvider(cfg)
	if err != nil {
		return err
	}

	interview := services.NewInterviewService(
		generator,
		services.NewDocumentExtractor(),
		services.NewResponseNormalizer(),
		cfg.AI.Model,
	)

	ctx := context.Background()
	var result json.RawMessage

	switch {
	case genExplain != "":
		result, err = interview.GenerateExplanation(ctx, genExplain)
	case genResume != "":
		if genExperience == "" || genJobTitle == "" {
			return fmt.Errorf("--experience and --job-title are required with --resume")
		}
		data, readErr := os.ReadFile(genResume)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", genResume, readErr)
		}
		count := genCount
		if !cmd.Flags().Changed("count") {
			count = models.DefaultResumeQuestionCount
		}
		if err := checkCount(count); err != nil {
			return err
		}
		result, err = interview.GenerateQuestionsFromResume(ctx, services.ResumeInput{
			Data:       data,
			Filename:   filepath.Base(genResume),
			Experience: genExperience,
			JobTitle:   genJobTitle,
			Count:      count,
		})
	default:
		if genRole == "" || genExperience == "" || genTopics == "" || !cmd.Flags().Changed("count") {
			return fmt.Errorf("--role, --experience, --topics and --count are required")
		}
		if err := checkCount(genCount); err != nil {
			return err
		}
		result, err = interview.GenerateQuestions(ctx, services.QuestionsInput{
			Role:          genRole,
			Experience:    genExperience,
			TopicsToFocus: genTopics,
			Count:         genCount,
		})
	}
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, result, "", "  "); err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}

// questionCountRule is the numberOfQuestions rule the API enforces.
const questionCountRule = "min=1,max=50"

func checkCount(n int) error {
	if err := validator.New().Var(n, questionCountRule); err != nil {
		return fmt.Errorf("--count must be between 1 and 50, got %d", n)
	}
	return nil
}
