// Dev utility: drive the generation client directly against a local Ollama
// instance, bypassing the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gabya-ai/Smart-Intro/internal/config"
	"github.com/gabya-ai/Smart-Intro/internal/letters"
	"github.com/gabya-ai/Smart-Intro/pkg/ollama"
)

const defaultTemplate = `Write a {{.FormatStyle}} ({{.LengthStyle}}) for this candidate.

Resume:
{{.Resume}}

Job description:
{{.JD}}
{{if .Highlights}}Highlights: {{.Highlights}}{{end}}`

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:11434", "Ollama base URL")
		model      = flag.String("model", "gemma3:4b", "model name")
		resumePath = flag.String("resume", "", "path to resume text file")
		jdPath     = flag.String("jd", "", "path to job description text file")
		highlights = flag.String("highlights", "", "comma-separated highlights")
	)
	flag.Parse()

	resume := mustRead(*resumePath, "resume")
	jd := mustRead(*jdPath, "job description")

	cfg := config.OllamaConfig{
		BaseURL:                 *baseURL,
		Timeout:                 2 * time.Minute,
		CircuitFailureThreshold: 5,
		CircuitReset:            30 * time.Second,
	}
	client, err := ollama.NewDefaultClient(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	prompt, err := ollama.RenderTemplate(defaultTemplate, letters.PromptInput{
		Resume:      resume,
		JD:          jd,
		Highlights:  *highlights,
		LengthStyle: letters.LengthMedium,
		FormatStyle: letters.FormatReferralBlurb,
	})
	if err != nil {
		log.Fatal(err)
	}

	res, err := client.Generate(context.Background(), *model, prompt)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Text)
	fmt.Fprintf(os.Stderr, "meta: %v\n", res.Meta)
}

func mustRead(path, what string) string {
	if path == "" {
		log.Fatalf("missing %s file (use -resume / -jd)", what)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", what, err)
	}
	return string(b)
}
