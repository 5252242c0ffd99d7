package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"agendamed/internal/apiclient"
	"agendamed/internal/domain"
	"agendamed/internal/workflow"
)

var errQuit = errors.New("encerrado pelo usuário")

// CLI lê comandos de In e escreve o diálogo em Out.
// Em qualquer passo: "v" volta, "q" encerra.
type CLI struct {
	Client      *apiclient.Client
	SessionPath string
	In          io.Reader
	Out         io.Writer

	scanner *bufio.Scanner
}

// Run obtém uma sessão e executa um fluxo completo de agendamento.
func (c *CLI) Run(ctx context.Context) error {
	c.scanner = bufio.NewScanner(c.In)

	session, err := c.session(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Olá, %s.\n", session.User.Nome)

	flow := workflow.New(c.Client, c.Client.Booker(session))
	for !flow.State().Terminal() {
		if err := c.step(ctx, flow); err != nil {
			if errors.Is(err, errQuit) {
				flow.Close()
				return errQuit
			}
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
				os.Remove(c.SessionPath)
				return fmt.Errorf("sessão expirada, faça login novamente: %w", err)
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			fmt.Fprintf(c.Out, "⚠️  %v\n", err)
		}
	}

	appt, ok := flow.Result()
	if !ok {
		return nil
	}
	fmt.Fprintf(c.Out, "✅ Agendamento #%d confirmado.\n", appt.ID)

	list, err := c.Client.ListAppointments(ctx, session)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "\nSeus agendamentos:")
	for _, a := range list {
		fmt.Fprintf(c.Out, "  %s\n", describe(a))
	}
	return nil
}

func (c *CLI) session(ctx context.Context) (*apiclient.Session, error) {
	if s, err := apiclient.LoadSession(c.SessionPath); err == nil {
		return s, nil
	}

	id, err := c.ask("Email ou CPF")
	if err != nil {
		return nil, err
	}
	password, err := c.ask("Senha")
	if err != nil {
		return nil, err
	}
	s, err := c.Client.Login(ctx, id, password)
	if err != nil {
		return nil, err
	}
	if err := s.Save(c.SessionPath); err != nil {
		fmt.Fprintf(c.Out, "⚠️  %v\n", err)
	}
	return s, nil
}

func (c *CLI) step(ctx context.Context, flow *workflow.Flow) error {
	switch flow.State() {
	case workflow.ChoosingSpecialty:
		specialties, err := flow.Specialties(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Out, "\nEspecialidades:")
		for _, s := range specialties {
			fmt.Fprintf(c.Out, "  %d) %s\n", s.ID, s.Nome)
		}
		id, back, err := c.askID("Especialidade")
		if err != nil || back {
			return c.backOr(flow, err)
		}
		return flow.SelectSpecialty(ctx, id)

	case workflow.ChoosingUnit:
		units, err := flow.Units(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Out, "\nUnidades:")
		for _, u := range units {
			fmt.Fprintf(c.Out, "  %d) %s - %s\n", u.ID, u.Nome, u.Endereco)
		}
		id, back, err := c.askID("Unidade")
		if err != nil || back {
			return c.backOr(flow, err)
		}
		return flow.SelectUnit(ctx, id)

	case workflow.ChoosingSchedule:
		date, err := c.ask("Data (AAAA-MM-DD)")
		if err != nil {
			return err
		}
		if date == "v" {
			return flow.Back()
		}
		schedules, err := flow.Schedules(ctx, date)
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			fmt.Fprintln(c.Out, "Nenhum horário disponível nesta data.")
			return nil
		}
		for _, s := range schedules {
			fmt.Fprintf(c.Out, "  %d) %s\n", s.ID, s.Hora)
		}
		id, back, err := c.askID("Horário")
		if err != nil || back {
			return c.backOr(flow, err)
		}
		return flow.SelectSchedule(ctx, date, id)

	case workflow.Confirming:
		d := flow.Draft()
		fmt.Fprintf(c.Out, "\n%s em %s, %s às %s\n", d.Specialty.Nome, d.Unit.Nome, d.Date, d.Schedule.Hora)
		notes, err := c.ask("Observações (enter para nenhuma)")
		if err != nil {
			return err
		}
		if notes == "v" {
			return flow.Back()
		}
		if err := flow.SetNotes(notes); err != nil {
			return err
		}
		answer, err := c.ask("Confirmar? (s/n)")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "s") {
			return flow.Back()
		}
		_, err = flow.Confirm(ctx)
		return err
	}
	return nil
}

func (c *CLI) backOr(flow *workflow.Flow, err error) error {
	if err != nil {
		return err
	}
	return flow.Back()
}

func (c *CLI) ask(prompt string) (string, error) {
	fmt.Fprintf(c.Out, "%s: ", prompt)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	text := strings.TrimSpace(c.scanner.Text())
	if text == "q" {
		return "", errQuit
	}
	return text, nil
}

// askID lê um id numérico; "v" pede para voltar.
func (c *CLI) askID(prompt string) (int, bool, error) {
	for {
		text, err := c.ask(prompt)
		if err != nil {
			return 0, false, err
		}
		if text == "v" {
			return 0, true, nil
		}
		id, err := strconv.Atoi(text)
		if err == nil && id > 0 {
			return id, false, nil
		}
		fmt.Fprintln(c.Out, "Digite o número da opção.")
	}
}

// describe resume um agendamento para listagens.
func describe(a domain.AppointmentWithDetails) string {
	return fmt.Sprintf("#%d %s - %s %s %s (%s)", a.ID, a.Specialty.Nome, a.Unit.Nome, a.Schedule.Data, a.Schedule.Hora, a.Status)
}
