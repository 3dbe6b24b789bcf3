// cmd/siladesk/main.go

// siladesk is a terminal client for the SILA social-services platform:
// sign in, browse and manage programs, events, and beneficiaries, and pull
// dashboard statistics and CSV reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/bootstrap"
	"github.com/sila-platform/siladesk/internal/app/features/account"
	"github.com/sila-platform/siladesk/internal/app/features/dashboard"
	"github.com/sila-platform/siladesk/internal/app/system/guard"
)

const usage = `usage: siladesk <command> [arguments]

commands:
  login -email <email> -password <password>
  logout
  whoami
  register charity -org <name> -registration-number <n> -issuing-authority <a> -type <t> \
      -email <e> -phone <p> -address <a> -admin-name <n> -password <p> -license <file> -admin-id <file>
  register ministry -name <n> -email <e> -contact <n> -code <c> -responsible <n> -position <p> \
      -password <p> -authorization <file>
  profile [show]
  profile update [-email <e>] [-first <f>] [-last <l>] [-ministry-name <n>] [-charity-name <n>] [-password <p>]
  programs [list]
  programs create -name <name> [-description <text>] [-deadline <date>]
  programs update -id <id> [-name <name>] [-description <text>] [-eligibility <text>] [-deadline <date>] [-status <s>]
  programs delete -id <id>
  events [list]
  events create -title <t> -description <d> -date <2006-01-02T15:04> -location <l> -city <c> -capacity <n>
  events update -id <id> [-title <t>] [-description <d>] [-date <d>] [-location <l>] [-city <c>] [-capacity <n>] [-active <bool>]
  events delete -id <id>
  beneficiaries [list]
  beneficiaries create -email <e> -password <p> -first <f> -last <l> -national-id <id> [...]
  beneficiaries update -id <id> [-first <f>] [-last <l>] [-phone <p>] [-city <c>] [...]
  beneficiaries delete -id <id>
  dashboard [-status <s>] [-program <id>] [-event <id>] [-from <date>] [-to <date>]
  export [-dir <dir>] [-status <s>] [-program <id>] [-event <id>] [-from <date>] [-to <date>]
`

func main() {
	// A missing .env is fine; the environment and defaults cover it.
	_ = godotenv.Load()

	cfg := bootstrap.LoadConfig()
	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := run(context.Background(), app, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "siladesk:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, app, args)
	case "logout":
		fmt.Println("signed out, back to", app.Account.Logout())
		return nil
	case "whoami":
		return runWhoami(app)
	case "register":
		return runRegister(ctx, app, args)
	case "profile":
		return runProfile(ctx, app, args)
	case "programs":
		return runPrograms(ctx, app, args)
	case "events":
		return runEvents(ctx, app, args)
	case "beneficiaries":
		return runBeneficiaries(ctx, app, args)
	case "dashboard":
		return runDashboard(ctx, app, args)
	case "export":
		return runExport(ctx, app, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// checkRoute applies the same route gating the pages use. A denial is an
// error naming where the client would have navigated instead.
func checkRoute(app *bootstrap.App, route string) error {
	req, ok := guard.For(route)
	if !ok {
		return fmt.Errorf("unknown route %q", route)
	}
	switch guard.Decide(app.Sess.IsAuthenticated(), app.Sess.Roles(), req) {
	case guard.RedirectToLogin:
		return fmt.Errorf("sign in first (siladesk login)")
	case guard.RedirectHome:
		return fmt.Errorf("your account does not have access to %s", route)
	}
	return nil
}

func runLogin(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	target, err := app.Account.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s, landing on %s\n", app.Sess.DisplayName(), target)
	return nil
}

func runWhoami(app *bootstrap.App) error {
	if !app.Sess.IsAuthenticated() {
		fmt.Println("not signed in")
		return nil
	}
	roles := app.Sess.Roles()
	fmt.Println("name:", app.Sess.DisplayName())
	fmt.Println("ministry:", roles.IsMinistry)
	fmt.Println("charity admin:", roles.IsCharityAdmin)
	if exp, ok := app.Sess.TokenExpiry(); ok {
		fmt.Println("token expires:", exp.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

// openUpload opens a document for a registration form. The caller owns the
// close func; it is a no-op when path is empty.
func openUpload(path string) (*account.Upload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return &account.Upload{Filename: filepath.Base(path), Content: fh}, func() { fh.Close() }, nil
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("register requires charity or ministry")
	}
	kind, args := args[0], args[1:]
	switch kind {
	case "charity":
		fs := flag.NewFlagSet("register charity", flag.ExitOnError)
		var f account.CharityForm
		fs.StringVar(&f.OrganizationName, "org", "", "organization name")
		fs.StringVar(&f.RegistrationNumber, "registration-number", "", "registration number")
		fs.StringVar(&f.IssuingAuthority, "issuing-authority", "", "issuing authority")
		fs.StringVar(&f.CharityType, "type", "", "charity type")
		fs.StringVar(&f.CustomCharityType, "custom-type", "", "custom charity type (when -type OTHER)")
		fs.StringVar(&f.Email, "email", "", "contact email")
		fs.StringVar(&f.Phone, "phone", "", "contact phone")
		fs.StringVar(&f.Address, "address", "", "address")
		fs.StringVar(&f.AdminName, "admin-name", "", "administrator name")
		fs.StringVar(&f.Password, "password", "", "account password")
		license := fs.String("license", "", "license certificate file")
		adminID := fs.String("admin-id", "", "admin id document file")
		fs.Parse(args)
		f.ConfirmPassword = f.Password

		doc, closeDoc, err := openUpload(*license)
		if err != nil {
			return err
		}
		defer closeDoc()
		f.LicenseCertificate = doc
		doc, closeDoc, err = openUpload(*adminID)
		if err != nil {
			return err
		}
		defer closeDoc()
		f.AdminIDDocument = doc

		if err := app.Account.RegisterCharity(ctx, f); err != nil {
			return err
		}
		fmt.Println("charity registration submitted, pending approval")
		return nil
	case "ministry":
		fs := flag.NewFlagSet("register ministry", flag.ExitOnError)
		var f account.MinistryForm
		fs.StringVar(&f.MinistryName, "name", "", "ministry name")
		fs.StringVar(&f.MinistryEmail, "email", "", "ministry email")
		fs.StringVar(&f.ContactNumber, "contact", "", "contact number")
		fs.StringVar(&f.MinistryCode, "code", "", "ministry code")
		fs.StringVar(&f.ResponsiblePersonName, "responsible", "", "responsible person name")
		fs.StringVar(&f.Position, "position", "", "responsible person position")
		fs.StringVar(&f.Password, "password", "", "account password")
		authorization := fs.String("authorization", "", "authorization document file")
		fs.Parse(args)
		f.ConfirmPassword = f.Password

		doc, closeDoc, err := openUpload(*authorization)
		if err != nil {
			return err
		}
		defer closeDoc()
		f.AuthorizationDocument = doc

		if err := app.Account.RegisterMinistry(ctx, f); err != nil {
			return err
		}
		fmt.Println("ministry registration submitted, pending approval")
		return nil
	default:
		return fmt.Errorf("unknown register kind %q", kind)
	}
}

func runProfile(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RouteProfile); err != nil {
		return err
	}
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "show":
		p, err := app.Account.LoadProfile(ctx)
		if err != nil {
			return err
		}
		fmt.Println("name:", p.DisplayName())
		fmt.Println("email:", p.Email)
		return nil
	case "update":
		fs := flag.NewFlagSet("profile update", flag.ExitOnError)
		p, _ := app.Sess.User()
		// Seed from the cached profile so unset flags keep current values.
		f := account.ProfileFormFor(p, app.Sess.Roles())
		fs.StringVar(&f.Email, "email", f.Email, "account email")
		fs.StringVar(&f.MinistryName, "ministry-name", f.MinistryName, "ministry name")
		fs.StringVar(&f.CharityName, "charity-name", f.CharityName, "charity name")
		fs.StringVar(&f.FirstName, "first", f.FirstName, "first name")
		fs.StringVar(&f.LastName, "last", f.LastName, "last name")
		fs.StringVar(&f.Password, "password", "", "new password (unset keeps the current one)")
		fs.Parse(args)
		f.ConfirmPassword = f.Password
		if err := app.Account.UpdateProfile(ctx, f); err != nil {
			return err
		}
		fmt.Println("profile updated")
		return nil
	default:
		return fmt.Errorf("unknown profile subcommand %q", sub)
	}
}

func runPrograms(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RoutePrograms); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	v := app.Programs
	switch sub {
	case "list":
		if err := v.Mount(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tOWNER\tSTATUS\tDEADLINE")
		for _, p := range v.Ctrl.Snapshot().Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.MinistryOwner, p.Status, p.ApplicationDeadline)
		}
		return w.Flush()
	case "create":
		fs := flag.NewFlagSet("programs create", flag.ExitOnError)
		fs.StringVar(&v.Form.Name, "name", "", "program name")
		fs.StringVar(&v.Form.Description, "description", "", "program description")
		fs.StringVar(&v.Form.EligibilityCriteria, "eligibility", "", "eligibility criteria")
		fs.StringVar(&v.Form.ApplicationDeadline, "deadline", "", "application deadline")
		fs.Parse(args)
		if err := v.SubmitCreate(ctx); err != nil {
			return err
		}
		fmt.Println("program created")
		return nil
	case "update":
		fs := flag.NewFlagSet("programs update", flag.ExitOnError)
		id := fs.Int64("id", 0, "program id")
		name := fs.String("name", "", "program name")
		description := fs.String("description", "", "program description")
		eligibility := fs.String("eligibility", "", "eligibility criteria")
		deadline := fs.String("deadline", "", "application deadline")
		status := fs.String("status", "", "program status")
		fs.Parse(args)
		if *id == 0 {
			return fmt.Errorf("programs update requires -id")
		}
		if err := v.Mount(ctx); err != nil {
			return err
		}
		started := false
		for _, p := range v.Ctrl.Snapshot().Items {
			if p.ID == *id {
				v.StartEdit(p)
				started = true
				break
			}
		}
		if !started {
			return fmt.Errorf("no program with id %d", *id)
		}
		// Only flags the user actually set override the fetched values.
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				v.Editing.Name = *name
			case "description":
				v.Editing.Description = *description
			case "eligibility":
				v.Editing.EligibilityCriteria = *eligibility
			case "deadline":
				v.Editing.ApplicationDeadline = *deadline
			case "status":
				v.Editing.Status = *status
			}
		})
		if err := v.SubmitEdit(ctx); err != nil {
			return err
		}
		fmt.Println("program updated")
		return nil
	case "delete":
		fs := flag.NewFlagSet("programs delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "program id")
		fs.Parse(args)
		v.DeleteConfirmID = *id
		if err := v.ConfirmDelete(ctx); err != nil {
			return err
		}
		fmt.Println("program deleted")
		return nil
	default:
		return fmt.Errorf("unknown programs subcommand %q", sub)
	}
}

func runEvents(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RouteEvents); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	v := app.Events
	switch sub {
	case "list":
		if err := v.Mount(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDATE\tCITY\tREGISTERED")
		for _, e := range v.Ctrl.Snapshot().Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\n",
				e.ID, e.Title, e.EventDate, e.City, e.CurrentRegistrations, e.MaxCapacity)
		}
		return w.Flush()
	case "create":
		fs := flag.NewFlagSet("events create", flag.ExitOnError)
		fs.StringVar(&v.Form.Title, "title", "", "event title")
		fs.StringVar(&v.Form.Description, "description", "", "event description")
		fs.StringVar(&v.Form.EventDate, "date", "", "event date and time")
		fs.StringVar(&v.Form.Location, "location", "", "event location")
		fs.StringVar(&v.Form.City, "city", "", "event city")
		fs.StringVar(&v.Form.MaxCapacity, "capacity", "", "max capacity")
		fs.Parse(args)
		if err := v.SubmitCreate(ctx); err != nil {
			return err
		}
		fmt.Println("event created")
		return nil
	case "update":
		fs := flag.NewFlagSet("events update", flag.ExitOnError)
		id := fs.Int64("id", 0, "event id")
		title := fs.String("title", "", "event title")
		description := fs.String("description", "", "event description")
		date := fs.String("date", "", "event date and time")
		location := fs.String("location", "", "event location")
		city := fs.String("city", "", "event city")
		capacity := fs.String("capacity", "", "max capacity")
		active := fs.Bool("active", true, "event is active")
		fs.Parse(args)
		if *id == 0 {
			return fmt.Errorf("events update requires -id")
		}
		if err := v.Mount(ctx); err != nil {
			return err
		}
		started := false
		for _, e := range v.Ctrl.Snapshot().Items {
			if e.ID == *id {
				v.StartEdit(e)
				started = true
				break
			}
		}
		if !started {
			return fmt.Errorf("no event with id %d", *id)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				v.Editing.Title = *title
			case "description":
				v.Editing.Description = *description
			case "date":
				v.Editing.EventDate = *date
			case "location":
				v.Editing.Location = *location
			case "city":
				v.Editing.City = *city
			case "capacity":
				v.Editing.MaxCapacity = *capacity
			case "active":
				v.Editing.IsActive = *active
			}
		})
		if err := v.SubmitEdit(ctx); err != nil {
			return err
		}
		fmt.Println("event updated")
		return nil
	case "delete":
		fs := flag.NewFlagSet("events delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "event id")
		fs.Parse(args)
		v.DeleteConfirmID = *id
		if err := v.ConfirmDelete(ctx); err != nil {
			return err
		}
		fmt.Println("event deleted")
		return nil
	default:
		return fmt.Errorf("unknown events subcommand %q", sub)
	}
}

func runBeneficiaries(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RouteBeneficiaries); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	v := app.Beneficiaries
	switch sub {
	case "list":
		if err := v.Mount(ctx); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tNATIONAL ID\tCITY\tFAMILY")
		for _, b := range v.Ctrl.Snapshot().Items {
			fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%d\n",
				b.ID, b.User.FirstName, b.User.LastName, b.NationalID, b.City, b.FamilySize)
		}
		return w.Flush()
	case "create":
		fs := flag.NewFlagSet("beneficiaries create", flag.ExitOnError)
		fs.StringVar(&v.Form.Email, "email", "", "account email")
		fs.StringVar(&v.Form.Password, "password", "", "account password")
		fs.StringVar(&v.Form.Username, "username", "", "account username (optional)")
		fs.StringVar(&v.Form.FirstName, "first", "", "first name")
		fs.StringVar(&v.Form.LastName, "last", "", "last name")
		fs.StringVar(&v.Form.NationalID, "national-id", "", "national id")
		fs.StringVar(&v.Form.Phone, "phone", "", "phone")
		fs.StringVar(&v.Form.Address, "address", "", "address")
		fs.StringVar(&v.Form.City, "city", "", "city")
		fs.StringVar(&v.Form.Region, "region", "", "region")
		fs.StringVar(&v.Form.DateOfBirth, "dob", "", "date of birth (2006-01-02)")
		fs.StringVar(&v.Form.FamilySize, "family-size", "", "family size")
		fs.StringVar(&v.Form.MonthlyIncome, "income", "", "monthly income")
		fs.StringVar(&v.Form.SpecialNeeds, "special-needs", "", "special needs notes")
		fs.Parse(args)
		if err := v.SubmitCreate(ctx); err != nil {
			return err
		}
		fmt.Println("beneficiary created")
		return nil
	case "update":
		fs := flag.NewFlagSet("beneficiaries update", flag.ExitOnError)
		id := fs.Int64("id", 0, "beneficiary id")
		email := fs.String("email", "", "account email")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		nationalID := fs.String("national-id", "", "national id")
		phone := fs.String("phone", "", "phone")
		address := fs.String("address", "", "address")
		city := fs.String("city", "", "city")
		region := fs.String("region", "", "region")
		dob := fs.String("dob", "", "date of birth (2006-01-02)")
		familySize := fs.String("family-size", "", "family size")
		income := fs.String("income", "", "monthly income")
		specialNeeds := fs.String("special-needs", "", "special needs notes")
		fs.Parse(args)
		if *id == 0 {
			return fmt.Errorf("beneficiaries update requires -id")
		}
		if err := v.Mount(ctx); err != nil {
			return err
		}
		started := false
		for _, b := range v.Ctrl.Snapshot().Items {
			if b.ID == *id {
				v.StartEdit(b)
				started = true
				break
			}
		}
		if !started {
			return fmt.Errorf("no beneficiary with id %d", *id)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "email":
				v.Editing.Email = *email
			case "first":
				v.Editing.FirstName = *first
			case "last":
				v.Editing.LastName = *last
			case "national-id":
				v.Editing.NationalID = *nationalID
			case "phone":
				v.Editing.Phone = *phone
			case "address":
				v.Editing.Address = *address
			case "city":
				v.Editing.City = *city
			case "region":
				v.Editing.Region = *region
			case "dob":
				v.Editing.DateOfBirth = *dob
			case "family-size":
				v.Editing.FamilySize = *familySize
			case "income":
				v.Editing.MonthlyIncome = *income
			case "special-needs":
				v.Editing.SpecialNeeds = *specialNeeds
			}
		})
		if err := v.SubmitEdit(ctx); err != nil {
			return err
		}
		fmt.Println("beneficiary updated")
		return nil
	case "delete":
		fs := flag.NewFlagSet("beneficiaries delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "beneficiary id")
		fs.Parse(args)
		v.DeleteConfirmID = *id
		if err := v.ConfirmDelete(ctx); err != nil {
			return err
		}
		fmt.Println("beneficiary deleted")
		return nil
	default:
		return fmt.Errorf("unknown beneficiaries subcommand %q", sub)
	}
}

func dashboardFilters(fs *flag.FlagSet, f *dashboard.Filters) {
	fs.StringVar(&f.ProgramID, "program", "", "filter by program id (ministry)")
	fs.StringVar(&f.EventID, "event", "", "filter by event id (charity)")
	fs.StringVar(&f.Status, "status", "", "filter by application status")
	fs.StringVar(&f.DateFrom, "from", "", "filter from date")
	fs.StringVar(&f.DateTo, "to", "", "filter to date")
}

func runDashboard(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RouteDashboard); err != nil {
		return err
	}
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	var filters dashboard.Filters
	dashboardFilters(fs, &filters)
	fs.Parse(args)

	v := app.Dashboard
	v.Agg.SetDebounceWindow(1) // no quiet window for a one-shot command
	v.Agg.SetFilters(ctx, filters)
	if err := v.Mount(ctx); err != nil {
		return err
	}

	snap := v.Agg.Snapshot()
	switch {
	case snap.Ministry != nil:
		m := snap.Ministry
		fmt.Println("programs:", m.TotalPrograms, "(active:", m.ActivePrograms, ")")
		fmt.Println("applications:", m.TotalApplications,
			"approved:", m.ApprovedCount(),
			"pending:", m.PendingCount(),
			"approval rate:", fmt.Sprintf("%d%%", m.ApprovalRate()))
		for _, p := range m.ProgramsSummary {
			fmt.Printf("  %s: %d applications, %d beneficiaries\n", p.Name, p.TotalApplications, p.UniqueBeneficiaries)
		}
	case snap.Charity != nil:
		c := snap.Charity
		fmt.Println("beneficiaries:", c.TotalBeneficiaries, "(active:", c.ActiveBeneficiaries, ")")
		fmt.Println("events:", c.TotalEvents, "registrations:", c.TotalRegistrations,
			"attendance:", fmt.Sprintf("%.1f%%", c.AttendanceRate))
		for _, e := range c.EventsSummary {
			fmt.Printf("  %s: %d/%d registered, %d attended\n", e.Title, e.CurrentRegistrations, e.MaxCapacity, e.AttendedCount)
		}
	default:
		fmt.Println("no statistics available")
	}
	return nil
}

func runExport(ctx context.Context, app *bootstrap.App, args []string) error {
	if err := checkRoute(app, guard.RouteDashboard); err != nil {
		return err
	}
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory to write the report into")
	var filters dashboard.Filters
	dashboardFilters(fs, &filters)
	fs.Parse(args)

	app.Dashboard.Agg.SetDebounceWindow(1)
	app.Dashboard.Agg.SetFilters(ctx, filters)
	out, err := app.Dashboard.Agg.Export(ctx, *dir)
	if err != nil {
		return err
	}
	fmt.Println("report written to", out)
	return nil
}
