package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/ui"
	"github.com/spf13/cobra"
)

// The terminal is the only host of a local match.
const terminalHost int64 = 0

const clearScreen = "\033[H\033[2J"

func newPlayCmd(a *app) *cobra.Command {
	var (
		categoryIDs []uint
		players     int
		imposters   int
		names       []string
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Deal a match and pass the device around the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := playConfig(players, imposters, names, categoryIDs)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			games := game.NewManager(a.store, rand.New(rand.NewSource(seed)), nil)
			session := &terminalSession{
				in:    bufio.NewReader(cmd.InOrStdin()),
				out:   cmd.OutOrStdout(),
				games: games,
			}
			return session.run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.UintSliceVar(&categoryIDs, "category", nil, "category ids to draw the secret word from")
	fs.IntVarP(&players, "players", "p", 0, "number of players, defaults to the number of --names")
	fs.IntVarP(&imposters, "imposters", "i", 1, "number of impostors, at most half the players")
	fs.StringSliceVarP(&names, "names", "n", nil, "player names in seat order, e.g. --names Ana,Ben,Caro")
	fs.Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	_ = fs.MarkHidden("seed")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// playConfig fills unnamed seats with defaults. --players may exceed the
// number of names but not the other way round.
func playConfig(players, imposters int, names []string, categoryIDs []uint) (game.GameConfig, error) {
	if players == 0 {
		players = len(names)
	}
	if len(names) > players {
		return game.GameConfig{}, fmt.Errorf("%w: %d names for %d players", game.ErrInvalidConfig, len(names), players)
	}
	if players < 0 || players > game.MaxPlayers {
		return game.GameConfig{}, fmt.Errorf("%w: at most %d players, got %d", game.ErrInvalidConfig, game.MaxPlayers, players)
	}
	seats := make([]string, players)
	copy(seats, names)
	cfg := game.NewGameConfig(seats, imposters, categoryIDs)
	return cfg, cfg.Validate()
}

type terminalSession struct {
	in    *bufio.Reader
	out   io.Writer
	games *game.Manager
}

func (s *terminalSession) run(ctx context.Context, cfg game.GameConfig) error {
	match, err := s.games.Start(ctx, terminalHost, cfg)
	if err != nil {
		return errors.New(ui.RenderMatchFailure(err))
	}
	for {
		if err := s.playRound(match); err != nil {
			return err
		}
		again, err := s.prompt("\nPlay again with the same players? [y/N] ")
		if err != nil || !strings.EqualFold(strings.TrimSpace(again), "y") {
			return nil
		}
		match, err = s.games.Rematch(ctx, terminalHost, match.Token())
		if err != nil {
			return errors.New(ui.RenderMatchFailure(err))
		}
	}
}

func (s *terminalSession) playRound(match *game.Match) error {
	if _, err := s.games.Advance(terminalHost, match.Token()); err != nil {
		return err
	}
	for match.State() == game.StateViewing {
		seat, _ := match.Current()
		if _, err := s.prompt(fmt.Sprintf("\nPlayer %d of %d: pass the device to %s, then press Enter.", match.Index()+1, match.Config.PlayerCount, seat.Name)); err != nil {
			return err
		}
		role, err := s.games.Card(terminalHost, match.Token())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "\n%s\n%s\n", role.Name, ui.RenderCard(role))
		if _, err := s.prompt("Press Enter to hide your card."); err != nil {
			return err
		}
		fmt.Fprint(s.out, clearScreen)
		if _, err := s.games.Advance(terminalHost, match.Token()); err != nil {
			return err
		}
	}

	if _, err := s.prompt(fmt.Sprintf("Everyone has seen their card. %s starts the round.\nPress Enter to reveal the answer.", match.Starter())); err != nil {
		return err
	}
	answer, err := s.games.Answer(terminalHost, match.Token())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nSecret word: %s\nImpostors: %s\n", answer.SecretWord, strings.Join(answer.Imposters, ", "))
	return nil
}

// prompt prints text and waits for a line of input.
func (s *terminalSession) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}
