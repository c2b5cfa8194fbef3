package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/maynagashev/vacationkeeper/internal/api"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/spf13/cobra"
)

const (
	envServerURL     = "VACATION_SERVER_URL"
	envToken         = "VACATION_TOKEN" //nolint:gosec // Имя переменной окружения, а не секрет
	defaultServerURL = "http://localhost:8080"
)

// app хранит глобальные флаги и фабрику клиента.
type app struct {
	serverURL string
	token     string
	newClient func(baseURL string) api.Client
}

func (a *app) client() (api.Client, error) {
	if a.token == "" {
		return nil, errors.New("не указан токен (--token или " + envToken + ")")
	}
	c := a.newClient(a.serverURL)
	c.SetAuthToken(a.token)
	return c, nil
}

func newRootCmd(newClient func(baseURL string) api.Client) *cobra.Command {
	a := &app{newClient: newClient}

	cmd := &cobra.Command{
		Use:           "vacationctl",
		Short:         "Заявки на отпуск: подача, решения, календарь",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&a.serverURL, "server-url", envOr(envServerURL, defaultServerURL),
		"Адрес сервера (env: "+envServerURL+")")
	cmd.PersistentFlags().StringVar(&a.token, "token", os.Getenv(envToken),
		"JWT токен сервиса идентификации (env: "+envToken+")")

	cmd.AddCommand(
		newSubmitCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDecideCmd(a, "approve", "Одобрить заявку", models.StatusApproved),
		newDecideCmd(a, "reject", "Отклонить заявку", models.StatusRejected),
		newCancelCmd(a),
		newCalendarCmd(a),
		newMeCmd(a),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный идентификатор заявки '%s'", raw)
	}
	return id, nil
}

func printRequests(out io.Writer, views []models.VacationRequestView) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tСОТРУДНИК\tС\tПО\tДНЕЙ\tСТАТУС")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			v.ID, v.EmployeeName, v.StartDate, v.EndDate, v.DaysCount, v.Status)
	}
	return tw.Flush()
}

func printRequest(out io.Writer, v *models.VacationRequestView) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", v.ID)
	fmt.Fprintf(tw, "Сотрудник:\t%s <%s>\n", v.EmployeeName, v.EmployeeEmail)
	fmt.Fprintf(tw, "Период:\t%s - %s (%d дн.)\n", v.StartDate, v.EndDate, v.DaysCount)
	fmt.Fprintf(tw, "Статус:\t%s\n", v.Status)
	if v.Reason != nil {
		fmt.Fprintf(tw, "Причина:\t%s\n", *v.Reason)
	}
	if v.AdminComment != nil {
		fmt.Fprintf(tw, "Комментарий:\t%s\n", *v.AdminComment)
	}
	if v.DecidedByName != "" {
		fmt.Fprintf(tw, "Решение принял:\t%s\n", v.DecidedByName)
	}
	return tw.Flush()
}
