package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dentkazan/clinicdirectory/internal/app"
	"github.com/dentkazan/clinicdirectory/internal/application/services"
	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/query/filter"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
)

// repl is the interactive terminal front-end over the view router. Each
// command maps onto one router event or one service operation; rendering is
// a plain-text dump of the resulting state.
type repl struct {
	router    *app.App
	sessions  *services.SessionService
	directory *services.DirectoryService
	reviews   *services.ReviewService
	admin     *services.AdminService

	in  *bufio.Scanner
	out *os.File
}

func newREPL(router *app.App, sessions *services.SessionService, directory *services.DirectoryService, reviews *services.ReviewService, admin *services.AdminService) *repl {
	return &repl{
		router:    router,
		sessions:  sessions,
		directory: directory,
		reviews:   reviews,
		admin:     admin,
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
	}
}

func (r *repl) run(ctx context.Context) error {
	state := r.router.Start(ctx)
	r.render(state)

	for ctx.Err() == nil {
		fmt.Fprintf(r.out, "[%s]> ", r.prompt())
		line, ok := r.readLine()
		if !ok {
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help", "?":
			r.printHelp()
		case "quit", "exit":
			return nil
		case "list":
			r.render(r.router.Back(ctx))
		case "open":
			r.cmdOpen(ctx, fields[1:])
		case "back":
			r.render(r.router.Back(ctx))
		case "search":
			r.cmdSearch(ctx, strings.TrimSpace(strings.TrimPrefix(line, "search")))
		case "filter":
			r.cmdFilter(strings.TrimSpace(strings.TrimPrefix(line, "filter")))
		case "services":
			r.cmdServices()
		case "login":
			r.cmdLogin(ctx, fields[1:])
		case "register":
			r.cmdRegister(ctx, fields[1:])
		case "logout":
			r.render(r.router.Logout(ctx))
		case "whoami":
			r.cmdWhoami()
		case "review":
			r.cmdReview(ctx, line)
		case "admin":
			r.cmdAdmin(ctx, fields[1:])
		default:
			fmt.Fprintf(r.out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
	return ctx.Err()
}

func (r *repl) prompt() string {
	state := r.router.State()
	if session := r.sessions.Current(); session != nil {
		return fmt.Sprintf("%s %s", state.View, session.User.Email)
	}
	return state.View.String()
}

func (r *repl) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `commands:
  list                       show the clinic listing
  open <id>                  open one clinic
  back                       return to the listing
  search <text>              search by name or address
  filter <service>           narrow the listing to one service
  services                   show the available service filters
  login <email> <password>
  register <email> <password> <full name>
  logout
  whoami
  review <rating 1-5> <text> leave a review for the open clinic
  admin list|add|edit <id>|delete <id>
  quit`)
}

func (r *repl) cmdOpen(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: open <id>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "usage: open <id>")
		return
	}
	r.render(r.router.SelectClinic(ctx, id))
}

func (r *repl) cmdSearch(ctx context.Context, query string) {
	clinics, err := r.directory.ListClinics(ctx, query, "")
	if err != nil {
		fmt.Fprintf(r.out, "search failed: %s\n", apperrors.UserMessage(err))
		return
	}
	r.printClinics(clinics)
}

func (r *repl) cmdFilter(service string) {
	state := r.router.State()
	r.printClinics(filter.Apply(state.Clinics, "", service))
}

func (r *repl) cmdServices() {
	state := r.router.State()
	for _, service := range filter.Services(state.Clinics) {
		fmt.Fprintf(r.out, "  %s\n", service)
	}
}

func (r *repl) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "usage: login <email> <password>")
		return
	}
	session, err := r.sessions.Login(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintf(r.out, "login failed: %s\n", apperrors.UserMessage(err))
		return
	}
	fmt.Fprintf(r.out, "signed in as %s\n", session.User.Email)
}

func (r *repl) cmdRegister(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(r.out, "usage: register <email> <password> <full name>")
		return
	}
	fullName := strings.Join(args[2:], " ")
	session, err := r.sessions.Register(ctx, args[0], args[1], fullName)
	if err != nil {
		fmt.Fprintf(r.out, "registration failed: %s\n", apperrors.UserMessage(err))
		return
	}
	fmt.Fprintf(r.out, "account created for %s\n", session.User.Email)
}

func (r *repl) cmdWhoami() {
	session := r.sessions.Current()
	if session == nil {
		fmt.Fprintln(r.out, "not signed in")
		return
	}
	role := "user"
	if session.User.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(r.out, "%s <%s> (%s)\n", session.User.FullName, session.User.Email, role)
}

func (r *repl) cmdReview(ctx context.Context, line string) {
	state := r.router.State()
	if state.View != app.ViewDetail {
		fmt.Fprintln(r.out, "open a clinic first")
		return
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		fmt.Fprintln(r.out, "usage: review <rating 1-5> <text>")
		return
	}
	rating, err := strconv.Atoi(parts[1])
	if err != nil {
		fmt.Fprintln(r.out, "usage: review <rating 1-5> <text>")
		return
	}

	r.reviews.SetDraft(rating, parts[2])
	clinicID, err := r.reviews.Submit(ctx, state.ClinicID)
	if err != nil {
		fmt.Fprintf(r.out, "review not submitted: %s\n", apperrors.UserMessage(err))
		return
	}
	fmt.Fprintln(r.out, "review submitted")
	r.render(r.router.ReviewAdded(ctx, clinicID))
}

func (r *repl) cmdAdmin(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.render(r.router.GoToAdmin(ctx))
		if r.router.State().View != app.ViewAdmin {
			fmt.Fprintln(r.out, "administrator access required")
		}
		return
	}

	switch args[0] {
	case "list":
		clinics, err := r.admin.List(ctx)
		if err != nil {
			fmt.Fprintf(r.out, "admin list failed: %s\n", apperrors.UserMessage(err))
			return
		}
		for _, clinic := range clinics {
			fmt.Fprintf(r.out, "  #%d %s, %s\n", clinic.ID, clinic.Name, clinic.Address)
		}
	case "add":
		form, ok := r.readClinicForm()
		if !ok {
			return
		}
		id, err := r.admin.Create(ctx, form)
		if err != nil {
			fmt.Fprintf(r.out, "create failed: %s\n", apperrors.UserMessage(err))
			return
		}
		fmt.Fprintf(r.out, "clinic #%d created\n", id)
	case "edit":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: admin edit <id>")
			return
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(r.out, "usage: admin edit <id>")
			return
		}
		form, ok := r.readClinicForm()
		if !ok {
			return
		}
		if err := r.admin.Update(ctx, id, form); err != nil {
			fmt.Fprintf(r.out, "update failed: %s\n", apperrors.UserMessage(err))
			return
		}
		fmt.Fprintf(r.out, "clinic #%d updated\n", id)
	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: admin delete <id>")
			return
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(r.out, "usage: admin delete <id>")
			return
		}
		deleted, err := r.admin.Delete(ctx, id, func() bool {
			fmt.Fprintf(r.out, "delete clinic #%d? [y/N] ", id)
			answer, ok := r.readLine()
			return ok && strings.EqualFold(answer, "y")
		})
		if err != nil {
			fmt.Fprintf(r.out, "delete failed: %s\n", apperrors.UserMessage(err))
			return
		}
		if deleted {
			fmt.Fprintf(r.out, "clinic #%d deleted\n", id)
		} else {
			fmt.Fprintln(r.out, "cancelled")
		}
	default:
		fmt.Fprintln(r.out, "usage: admin [list|add|edit <id>|delete <id>]")
	}
}

// readClinicForm prompts for every clinic field, one per line. Services are
// comma-separated; schedule lines are read until an empty line.
func (r *repl) readClinicForm() (services.ClinicForm, bool) {
	var form services.ClinicForm

	prompts := []struct {
		label string
		field *string
	}{
		{"name", &form.Name},
		{"image URL", &form.ImageURL},
		{"address", &form.Address},
		{"phone", &form.Phone},
		{"email", &form.Email},
		{"description", &form.Description},
		{"services (comma-separated)", &form.Services},
	}
	for _, prompt := range prompts {
		fmt.Fprintf(r.out, "%s: ", prompt.label)
		value, ok := r.readLine()
		if !ok {
			return form, false
		}
		*prompt.field = value
	}

	fmt.Fprintln(r.out, "schedule (one 'days: hours' line each, empty line to finish):")
	var lines []string
	for {
		line, ok := r.readLine()
		if !ok {
			return form, false
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	form.Schedule = strings.Join(lines, "\n")
	return form, true
}

func (r *repl) render(state app.State) {
	if state.Err != "" {
		fmt.Fprintf(r.out, "error: %s\n", state.Err)
	}

	switch state.View {
	case app.ViewDetail:
		r.printClinic(state.Clinic)
	case app.ViewAdmin:
		fmt.Fprintln(r.out, "admin panel: admin list|add|edit <id>|delete <id>, back to leave")
	default:
		r.printClinics(state.Clinics)
	}
}

func (r *repl) printClinics(clinics []entities.Clinic) {
	if len(clinics) == 0 {
		fmt.Fprintln(r.out, "no clinics found")
		return
	}
	for _, clinic := range clinics {
		fmt.Fprintf(r.out, "  #%-3d %-30s %.1f★ (%d) %s\n",
			clinic.ID, clinic.Name, clinic.Rating, clinic.ReviewCount, clinic.Address)
	}
}

func (r *repl) printClinic(clinic *entities.Clinic) {
	if clinic == nil {
		return
	}
	fmt.Fprintf(r.out, "%s\n%s\n%s | %s | %s\n", clinic.Name, clinic.Description, clinic.Address, clinic.Phone, clinic.Email)
	if len(clinic.Services) > 0 {
		fmt.Fprintf(r.out, "services: %s\n", strings.Join(clinic.Services, ", "))
	}
	for days, hours := range clinic.Schedule {
		fmt.Fprintf(r.out, "  %s: %s\n", days, hours)
	}
	fmt.Fprintf(r.out, "rating %.1f from %d reviews\n", clinic.Rating, clinic.ReviewCount)
	for _, review := range clinic.Reviews {
		fmt.Fprintf(r.out, "  [%d★] %s (%s): %s\n", review.Rating, review.Author, review.Date, review.Text)
	}
}
