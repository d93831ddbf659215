package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const chatHelp = `Commands:
  /reserve <n> <party size> <YYYY-MM-DD> <HH:MM> [requests]  call recommendation n to book
  /status <call handle>                                       show the state of a call
  /favorite <n>                                               save recommendation n
  /favorites                                                  list saved restaurants
  /reservations                                               list reservations
  /help                                                       show this help
  /quit                                                       leave
Anything else is sent to the assistant.`

func cmdChat() *cli.Command {
	var engineCfg engineConfig
	var userID int64

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "user-id",
			Usage:       "User to chat as (defaults to default_user_id of the config)",
			Sources:     cli.EnvVars("DINEWISE_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Talk to the assistant in the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			eng, err := engineCfg.build(ctx, nil)
			if err != nil {
				return err
			}
			defer eng.Close()

			if userID == 0 {
				userID = eng.app.DefaultUserID
			}

			session, err := newChatSession(ctx, eng.uc, userID, os.Stdout)
			if err != nil {
				return err
			}
			return session.run(ctx, os.Stdin)
		},
	}
}

type chatSession struct {
	uc             *usecase.UseCases
	userID         int64
	conversationID int64
	last           []*model.Restaurant
	out            io.Writer

	prompt    *color.Color
	assistant *color.Color
	info      *color.Color
	failure   *color.Color
}

func newChatSession(ctx context.Context, uc *usecase.UseCases, userID int64, out io.Writer) (*chatSession, error) {
	conv, err := uc.Chat.GetOrCreateConversation(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open conversation", goerr.V(usecase.UserIDKey, userID))
	}

	s := &chatSession{
		uc:             uc,
		userID:         userID,
		conversationID: conv.ID,
		out:            out,
		prompt:         color.New(color.FgGreen, color.Bold),
		assistant:      color.New(color.FgCyan),
		info:           color.New(color.FgYellow),
		failure:        color.New(color.FgRed),
	}

	// Resume with the previous turn's recommendations so /reserve works
	// right after a restart
	for _, id := range conv.Context.LastRecommendations {
		r, err := uc.Restaurant.Get(ctx, id)
		if err != nil {
			continue
		}
		s.last = append(s.last, r)
	}
	return s, nil
}

func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	s.info.Fprintf(s.out, "Conversation #%d. Type /help for commands.\n", s.conversationID)

	scanner := bufio.NewScanner(in)
	for {
		s.prompt.Fprint(s.out, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if err := s.handle(ctx, line); err != nil {
			s.failure.Fprintf(s.out, "error: %s\n", err.Error())
		}
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	return nil
}

func (s *chatSession) handle(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, "/") {
		return s.say(ctx, line)
	}

	args := strings.Fields(line)
	switch args[0] {
	case "/help":
		fmt.Fprintln(s.out, chatHelp)
		return nil
	case "/reserve":
		return s.reserve(ctx, args[1:])
	case "/status":
		if len(args) != 2 {
			return goerr.New("usage: /status <call handle>")
		}
		status, err := s.uc.Reservation.CheckCallStatus(ctx, args[1])
		if err != nil {
			return err
		}
		s.info.Fprintf(s.out, "call %s: %s\n", args[1], status.Status)
		if status.RecordingURL != "" {
			s.info.Fprintf(s.out, "recording: %s\n", status.RecordingURL)
		}
		return nil
	case "/favorite":
		r, err := s.pick(args[1:])
		if err != nil {
			return err
		}
		if _, err := s.uc.Favorite.Add(ctx, s.userID, r.ID); err != nil {
			return err
		}
		s.info.Fprintf(s.out, "saved %s\n", r.Name)
		return nil
	case "/favorites":
		favs, err := s.uc.Favorite.List(ctx, s.userID)
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			s.info.Fprintln(s.out, "no favorites yet")
		}
		for _, f := range favs {
			if f.Restaurant != nil {
				fmt.Fprintf(s.out, "  * %s (%s, %s)\n", f.Restaurant.Name, f.Restaurant.Cuisine, f.Restaurant.PriceRange)
			}
		}
		return nil
	case "/reservations":
		list, err := s.uc.Reservation.List(ctx, s.userID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			s.info.Fprintln(s.out, "no reservations yet")
		}
		for _, r := range list {
			name := "(unknown restaurant)"
			if r.Restaurant != nil {
				name = r.Restaurant.Name
			}
			fmt.Fprintf(s.out, "  #%d %s, %d people at %s [%s]\n",
				r.ID, name, r.PartySize, r.DateTime.Format("2006-01-02 15:04"), r.Status)
		}
		return nil
	default:
		return goerr.New("unknown command, type /help", goerr.V("command", args[0]))
	}
}

func (s *chatSession) say(ctx context.Context, text string) error {
	result, err := s.uc.Chat.SubmitTurn(ctx, s.userID, usecase.TurnInput{
		ConversationID: s.conversationID,
		Utterance:      text,
	})
	if err != nil {
		return err
	}

	s.assistant.Fprintf(s.out, "dinewise> %s\n", result.Message.Content)
	if len(result.Recommendations) > 0 {
		s.last = result.Recommendations
		for i, r := range result.Recommendations {
			fmt.Fprintf(s.out, "  [%d] %s - %s, %s, %d/5 (%s)\n", i+1, r.Name, r.Cuisine, r.PriceRange, r.Rating, r.Address)
		}
	}
	return nil
}

func (s *chatSession) pick(args []string) (*model.Restaurant, error) {
	if len(args) == 0 {
		return nil, goerr.New("recommendation number is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.last) {
		return nil, goerr.New("no such recommendation", goerr.V("number", args[0]), goerr.V("available", len(s.last)))
	}
	return s.last[n-1], nil
}

func (s *chatSession) reserve(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return goerr.New("usage: /reserve <n> <party size> <YYYY-MM-DD> <HH:MM> [requests]")
	}
	r, err := s.pick(args)
	if err != nil {
		return err
	}
	party, err := strconv.Atoi(args[1])
	if err != nil {
		return goerr.New("party size must be a number", goerr.V("party_size", args[1]))
	}

	result, err := s.uc.Reservation.RequestCall(ctx, s.userID, usecase.CallInput{
		RestaurantID:    r.ID,
		PartySize:       party,
		Date:            args[2],
		Time:            args[3],
		SpecialRequests: strings.Join(args[4:], " "),
		ConversationID:  s.conversationID,
	})
	if err != nil {
		return err
	}

	s.info.Fprintf(s.out, "calling %s (handle %s, status %s, about %ds)\n",
		r.Name, result.Reservation.CallHandle, result.CallStatus, result.EstimatedDuration)
	return nil
}
