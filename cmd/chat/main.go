package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/dharmikk7610/folio/internal/chatbot"
	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML client config file")
	flag.Parse()

	logger.Init(config.GetEnvOrDefault("LOG_LEVEL", "warn"), true)

	cfg, err := config.LoadClientConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load client configuration")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Chat client failed")
	}
}

func run(cfg config.ClientConfig) error {
	var renderer *glamour.TermRenderer
	if cfg.Markdown && term.IsTerminal(int(os.Stdout.Fd())) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			logger.Warn(logger.CLIENT, "Markdown rendering unavailable, printing plain text: %v", err)
		} else {
			renderer = r
		}
	}

	session := chatbot.NewSession(chatbot.NewClient(cfg, nil), cfg.Greeting)
	view := newTurnView(os.Stdout, renderer, session.Streaming)
	session.OnUpdate(view.update)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// liner owns Ctrl+C while prompting; during a send it aborts the request
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			session.Abort()
		}
	}()

	fmt.Println(infoStyle.Render("Chatting with " + cfg.RelayURL + ". /quit to leave."))
	if cfg.Greeting != "" {
		fmt.Println(assistantStyle.Render("assistant") + " " + view.render(cfg.Greeting))
	}

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}
		session.SetDraft(input)

		text := strings.TrimSpace(session.Draft())
		switch text {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}
		line.AppendHistory(text)

		// the reply lands after the user message about to be appended
		view.begin(len(session.Transcript()) + 1)
		if err := session.SendMessage(context.Background(), text); err != nil {
			fmt.Fprint(os.Stdout, clearLine)
			fmt.Println(infoStyle.Render(err.Error()))
			continue
		}
		view.finish(session.Transcript())
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file.toml]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Environment: CHAT_RELAY_URL, CHAT_PUBLISHABLE_KEY, CHAT_GREETING, CHAT_MARKDOWN, LOG_LEVEL")
		flag.PrintDefaults()
	}
}
