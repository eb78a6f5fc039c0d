// Command console runs the FAQ chatbot as an interactive terminal session.
//
// It answers from the same resolver as the HTTP service; there is no network
// dependency. Type "help" for the catalogue, "exit" to quit.
//
// Usage:
//
//	go run ./cmd/console [-config configs/development.yaml] [-confidence]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aerovia-labs/faq-service/internal/faq"
	"github.com/aerovia-labs/faq-service/internal/match"
	"github.com/aerovia-labs/faq-service/internal/resolver"
	"github.com/aerovia-labs/faq-service/pkg/config"
	apperrors "github.com/aerovia-labs/faq-service/pkg/errors"
	"github.com/aerovia-labs/faq-service/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	showConfidence := flag.Bool("confidence", false, "print the confidence percentage with each answer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	// Console sessions want human-readable logs on stderr noise level only.
	logger.Setup("error", "text")

	catalogue := faq.Drone()
	if cfg.Chat.CataloguePath != "" {
		catalogue, err = faq.LoadFile(cfg.Chat.CataloguePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load catalogue: %v\n", err)
			os.Exit(1)
		}
	}

	res := resolver.New(catalogue, resolver.Config{
		Threshold:       cfg.Chat.ConfidenceThreshold,
		FallbackMessage: cfg.Chat.FallbackMessage,
		Scorer:          match.NewHybrid(cfg.Chat.SimilarityWeight, cfg.Chat.KeywordWeight),
	})

	printBanner(catalogue)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nBot: Thank you for visiting. Goodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit", "quit", "bye":
			fmt.Println("Bot: Thank you for visiting. Goodbye!")
			return
		case "help":
			fmt.Println("\nAvailable questions:")
			for i, q := range catalogue.Questions() {
				fmt.Printf("%d. %s\n", i+1, q)
			}
			fmt.Println()
			continue
		case "":
			continue
		}

		resp, err := res.Ask(input)
		if err != nil {
			if errors.Is(err, apperrors.ErrEmptyQuery) {
				fmt.Println("Bot: Please provide a question.")
			} else {
				fmt.Printf("Bot: Something went wrong: %v\n", err)
			}
			continue
		}

		fmt.Printf("Bot: %s\n", resp.Answer)
		if *showConfidence {
			fmt.Printf("(Confidence: %.1f%%)\n", resp.Confidence*100)
		}
		fmt.Println()
	}
}

func printBanner(catalogue *faq.Catalogue) {
	line := strings.Repeat("=", 50)
	fmt.Println(line)
	fmt.Println("  Drone FAQ Chatbot")
	fmt.Println("  Type 'help' for questions, 'exit' to quit.")
	fmt.Println(line)
	fmt.Println()
	fmt.Println("You can ask things like:")
	for _, q := range catalogue.Questions() {
		fmt.Printf("- %s\n", q)
	}
	fmt.Println()
}
