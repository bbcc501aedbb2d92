package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pitchtank/pkg/api"
	"pitchtank/pkg/form"
	"pitchtank/pkg/redirect"
	"pitchtank/pkg/tui"
	"pitchtank/pkg/wizard"
)

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// readPassword prompts on stderr so output redirection stays clean.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <email>",
		Short: "Create a founder account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			client := api.New(a.Server)
			if err := client.Register(ctx, args[0], pass); err != nil {
				if errors.Is(err, api.ErrConflict) {
					return fmt.Errorf("an account for %s already exists", args[0])
				}
				return err
			}
			fmt.Println("account created; now run `pitchtank login", args[0]+"`")
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			client := api.New(a.Server)
			res, err := client.Login(ctx, args[0], pass)
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errors.New("wrong email or password")
				}
				return err
			}
			client.SetToken(res.Token)
			id, err := client.Me(ctx)
			if err != nil {
				return err
			}
			if err := saveSession(session{
				Server:       a.Server,
				Token:        res.Token,
				RefreshToken: res.RefreshToken,
				UserID:       id.UserID,
				Username:     id.Username,
				Role:         id.Role,
			}); err != nil {
				return err
			}
			// Seed the draft's identity snapshot so the wizard can gate
			// itself before its first fetch completes.
			if path, err := wizard.DefaultDraftPath(); err == nil {
				store := &wizard.FileDraftStore{Path: path}
				d, _ := store.Load()
				d.UserID = id.UserID
				d.Email = id.Username
				d.Role = id.Role
				_ = store.Save(d)
			}
			fmt.Printf("logged in as %s (%s)\n", id.Username, id.Role)

			hasSubmission := false
			if _, err := client.FetchSubmission(ctx, id.UserID); err == nil {
				hasSubmission = true
			}
			switch out := redirect.Resolve("/login", redirect.AuthState{
				Authenticated: true,
				Role:          id.Role,
				HasSubmission: hasSubmission,
			}).(type) {
			case redirect.External:
				fmt.Println("your dashboard:", out.URL)
			case redirect.Internal:
				if out.Path == "/pitch-tank/apply" {
					fmt.Println("next: run `pitchtank apply` to start your application")
				} else {
					fmt.Println("next:", out.Path)
				}
			}
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session and local draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clearSession(); err != nil {
				return err
			}
			if path, err := wizard.DefaultDraftPath(); err == nil {
				_ = (&wizard.FileDraftStore{Path: path}).Clear()
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

// openClient rebuilds an authenticated client from the stored session.
func openClient(a *app) (*api.Client, session, error) {
	s, err := loadSession()
	if err != nil {
		return nil, s, err
	}
	base := s.Server
	if a.Server != defaultServer && a.Server != "" {
		base = a.Server
	}
	client := api.New(base)
	client.SetToken(s.Token)
	ctx, cancel := cmdContext()
	defer cancel()
	if _, err := client.Me(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, s, errNotLoggedIn
		}
		return nil, s, err
	}
	return client, s, nil
}

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Open the application wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := openClient(a)
			if err != nil {
				return err
			}
			draftPath, err := wizard.DefaultDraftPath()
			if err != nil {
				return err
			}
			drafts := &wizard.FileDraftStore{Path: draftPath}
			ctrl := wizard.NewController(client, drafts, s.UserID)
			return tui.Run(client, ctrl, drafts, draftPath)
		},
	}
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a pitch deck without opening the wizard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(a)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			url, err := client.UploadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			if path, err := wizard.DefaultDraftPath(); err == nil {
				// bump the tick so a wizard running in another terminal
				// notices the new deck
				_, _ = wizard.RecordUpload(&wizard.FileDraftStore{Path: path}, url)
			}
			fmt.Println("uploaded:", url)
			return nil
		},
	}
}

func newDeleteDeckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-deck",
		Short: "Remove the uploaded pitch deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := openClient(a)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			if err := client.DeleteDocument(ctx, s.UserID); err != nil && !errors.Is(err, api.ErrNotFound) {
				return err
			}
			if path, err := wizard.DefaultDraftPath(); err == nil {
				if err := wizard.ClearUpload(&wizard.FileDraftStore{Path: path}); err != nil {
					return err
				}
			}
			fmt.Println("pitch deck removed")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how far along the application is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := openClient(a)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext()
			defer cancel()
			wire, err := client.FetchSubmission(ctx, s.UserID)
			if errors.Is(err, api.ErrNotFound) {
				fmt.Println("no application yet; run `pitchtank apply` to start")
				return nil
			}
			if err != nil {
				return err
			}
			rec := form.ToFormShape(wire)
			printStatus(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func printStatus(w io.Writer, rec *form.Record) {
	ceiling := wizard.ComputeInitialCeiling(rec)
	for t := form.TabBasics; t <= form.TabReview; t++ {
		mark := " "
		done := true
		for _, f := range form.Required(t) {
			if f.Empty(rec) {
				done = false
				break
			}
		}
		if done {
			mark = "x"
		}
		lock := ""
		if t > ceiling {
			lock = "  (locked)"
		}
		fmt.Fprintf(w, "[%s] %d. %s%s\n", mark, int(t), t.Title(), lock)
	}
	if rec.HasPitchDeck == "yes" && rec.PitchDeckURL == "" {
		fmt.Fprintln(w, "\npitch deck declared but not uploaded yet")
	}
	if rec.ConfirmAccuracy == "yes" {
		fmt.Fprintln(w, "\napplication submitted")
	}
}
