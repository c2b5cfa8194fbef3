package main

import (
	"fmt"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/spf13/cobra"
)

func newSubmitCmd(a *app) *cobra.Command {
	var start, end, reason string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Подать заявку на отпуск",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := submitInput(start, end, reason)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			view, err := c.SubmitVacation(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printRequest(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Первый день отпуска (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Последний день отпуска (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "Причина (необязательно)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func submitInput(start, end, reason string) (models.SubmitVacationRequest, error) {
	startDate, err := models.ParseDate(start)
	if err != nil {
		return models.SubmitVacationRequest{}, fmt.Errorf("--start: %w", err)
	}
	endDate, err := models.ParseDate(end)
	if err != nil {
		return models.SubmitVacationRequest{}, fmt.Errorf("--end: %w", err)
	}
	input := models.SubmitVacationRequest{StartDate: startDate, EndDate: endDate}
	if reason != "" {
		input.Reason = &reason
	}
	return input, nil
}

func newListCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать заявки (свои или все для администратора)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var views []models.VacationRequestView
			if status != "" {
				views, err = c.ListVacationsByStatus(cmd.Context(), models.VacationStatus(status))
			} else {
				views, err = c.ListVacations(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Фильтр по статусу (только администратор)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Показать заявку",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			view, err := c.GetVacation(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRequest(cmd.OutOrStdout(), view)
		},
	}
}

func newDecideCmd(a *app, use, short string, status models.VacationStatus) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			input := models.DecideVacationRequest{Status: status}
			if comment != "" {
				input.AdminComment = &comment
			}
			view, err := c.DecideVacation(cmd.Context(), id, input)
			if err != nil {
				return err
			}
			return printRequest(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Комментарий администратора")
	return cmd
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Отменить свою заявку в ожидании",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			view, err := c.CancelVacation(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRequest(cmd.OutOrStdout(), view)
		},
	}
}

func newCalendarCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Одобренные отпуска за период",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startDate, err := models.ParseDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := models.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			views, err := c.Calendar(cmd.Context(), startDate, endDate)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Начало периода (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Конец периода (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Мой профиль и остаток дней отпуска",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s <%s>, роль %s\n", me.FirstName, me.LastName, me.Email, me.Role)
			fmt.Fprintf(out, "Дней в году: %d, использовано: %d, доступно: %d\n",
				me.TotalDays, me.UsedDays, me.AvailableDays)
			return nil
		},
	}
}
