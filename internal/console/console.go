// Package console is the interactive administrative shell: a prompt loop
// over the session manager, the route guard and the per-entity services.
// Every accepted command counts as user activity, and every protected
// command passes the guard before it runs.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akhaled-dev/restodesk/internal/flash"
	"github.com/akhaled-dev/restodesk/internal/guard"
	"github.com/akhaled-dev/restodesk/internal/kvstore"
	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
	"github.com/akhaled-dev/restodesk/internal/service"
	"github.com/akhaled-dev/restodesk/internal/session"
)

// compactKey is the durable key holding the compact-listing preference.
const compactKey = "app_sidebar_collapsed"

// expiryMessage is the one-shot warning shown after an idle timeout.
const expiryMessage = "انتهت الجلسة بسبب عدم النشاط، يرجى تسجيل الدخول مرة أخرى"

// Services bundles the per-entity wrappers the shell drives.
type Services struct {
	Users           *service.Users
	Branches        *service.Branches
	Shifts          *service.Shifts
	AttendanceTypes *service.AttendanceTypes
	Attendance      *service.Attendance
	Payroll         *service.Payroll
	RequestStatuses *service.RequestStatuses
	Products        *service.Products
	InventoryItems  *service.InventoryItems
	BranchInventory *service.BranchInventory
	Dashboard       *service.Dashboard
}

// Console is the interactive shell state.
type Console struct {
	session *session.Manager
	flash   *flash.Service
	prefs   kvstore.Store
	svc     Services
	log     *zap.Logger

	in  *bufio.Scanner
	out io.Writer
}

// New wires the shell over its collaborators. prefs is the durable store
// carrying the compact-listing preference across restarts.
func New(sess *session.Manager, fl *flash.Service, prefs kvstore.Store, svc Services, log *zap.Logger, in io.Reader, out io.Writer) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		session: sess,
		flash:   fl,
		prefs:   prefs,
		svc:     svc,
		log:     log,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run executes the prompt loop until exit or end of input. Idle-timeout
// expiries arriving on the session stream become a one-shot warning
// consumed by the next login prompt.
func (c *Console) Run(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.session.Expired():
				c.flash.Set(expiryMessage, flash.Warning)
				c.log.Info("idle timeout flash queued")
			}
		}
	}()

	for {
		fmt.Fprint(c.out, "restodesk> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		c.session.NotifyActivity()

		switch args[0] {
		case "help":
			c.printHelp()
		case "login":
			c.login(ctx)
		case "logout":
			c.session.Logout()
			fmt.Fprintln(c.out, "تم تسجيل الخروج")
		case "whoami":
			c.whoami()
		case "exit":
			fmt.Fprintln(c.out, "مع السلامة")
			return
		case "compact":
			c.toggleCompact()
		case "users":
			c.guarded(ctx, c.usersPage)
		case "branches":
			c.guarded(ctx, c.branchesPage)
		case "shifts":
			c.guarded(ctx, c.shiftsPage)
		case "atypes":
			c.guarded(ctx, c.attendanceTypesPage)
		case "attendance":
			c.guarded(ctx, c.attendance)
		case "deductions":
			c.guarded(ctx, c.deductionsPage)
		case "additions":
			c.guarded(ctx, c.additionsPage)
		case "statuses":
			c.guarded(ctx, c.requestStatusesPage)
		case "products":
			c.guarded(ctx, c.productsPage)
		case "items":
			c.guarded(ctx, c.inventoryItemsPage)
		case "stock":
			c.guarded(ctx, c.stockPage)
		case "txns":
			c.guarded(ctx, c.transactions)
		case "recipes":
			c.guarded(ctx, c.recipes)
		case "assign":
			c.guarded(ctx, c.assignShift)
		case "transfer":
			c.guarded(ctx, c.transfer)
		case "salary":
			c.guarded(ctx, c.salary)
		case "instant":
			c.guarded(ctx, c.instantSalary)
		case "report":
			c.guarded(ctx, c.report)
		case "dash":
			c.guarded(ctx, c.dash)
		default:
			fmt.Fprintln(c.out, "أمر غير معروف، اكتب help لعرض الأوامر")
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands: login, logout, whoami, users, branches, shifts, atypes, attendance, deductions, additions, statuses, products, recipes, items, stock, txns, assign, transfer, salary, instant, report, dash, compact, help, exit")
}

// guarded runs a protected command only for a live session; otherwise it
// reports the login redirect the route guard decided.
func (c *Console) guarded(ctx context.Context, fn func(context.Context)) {
	decision := guard.Check(c.session)
	if !decision.Allowed {
		fmt.Fprintf(c.out, "يرجى تسجيل الدخول أولا (%s)\n", decision.RedirectTo)
		return
	}
	fn(ctx)
}

func (c *Console) login(ctx context.Context) {
	if pending := c.flash.Consume(); pending != nil {
		fmt.Fprintf(c.out, "[%s] %s\n", pending.Type, pending.Message)
	}
	identifier := c.prompt("اسم المستخدم أو الرقم القومي: ")
	passcode := c.prompt("كود المرور: ")

	user, err := c.session.Login(ctx, identifier, passcode)
	if err != nil {
		fmt.Fprintf(c.out, "فشل تسجيل الدخول: %s\n", err)
		return
	}
	fmt.Fprintf(c.out, "مرحبا %s\n", user.FullName)
}

func (c *Console) whoami() {
	user := c.session.CurrentUser()
	if user == nil {
		fmt.Fprintln(c.out, "لم يتم تسجيل الدخول")
		return
	}
	fmt.Fprintf(c.out, "%s (%s)\n", user.FullName, user.Username)
}

func (c *Console) toggleCompact() {
	current, _ := c.prefs.Get(compactKey)
	next := "true"
	if current == "true" {
		next = "false"
	}
	c.prefs.Set(compactKey, next)
	fmt.Fprintf(c.out, "العرض المضغوط: %s\n", next)
}

// compact reports the persisted compact-listing preference.
func (c *Console) compact() bool {
	v, _ := c.prefs.Get(compactKey)
	return v == "true"
}

func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *Console) promptFloat(label string) float64 {
	v, err := strconv.ParseFloat(c.prompt(label), 64)
	if err != nil {
		return 0
	}
	return v
}

func (c *Console) promptInt(label string) int {
	v, err := strconv.Atoi(c.prompt(label))
	if err != nil {
		return 0
	}
	return v
}

// page is one entity listing with search/clear/add/edit/delete
// subcommands. create and edit run a prompt-driven form in place of the
// original form view keyed by id (or "new").
type page[T any] struct {
	title  string
	view   *ListView[T]
	load   func(context.Context) ([]T, error)
	row    func(T) string
	create func(context.Context) error
	edit   func(context.Context, string) error
	delete func(context.Context, string) error
}

// runPage loads the collection then serves the page subloop. Deleting a
// row that the backend rejects for referential integrity keeps the row
// and shows the specific message; any other failure shows a generic one.
// Either way the operator retries manually.
func runPage[T any](ctx context.Context, c *Console, p page[T]) {
	items, err := p.load(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر تحميل القائمة: %s\n", err)
		return
	}
	p.view.Load(items)
	p.render(c)

	for {
		fmt.Fprintf(c.out, "%s> ", p.title)
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		c.session.NotifyActivity()

		switch args[0] {
		case "search":
			p.view.Search(strings.Join(args[1:], " "))
			p.render(c)
		case "clear":
			p.view.Clear()
			p.render(c)
		case "list":
			p.render(c)
		case "add":
			if p.create == nil {
				fmt.Fprintln(c.out, "الإضافة غير متاحة في هذه الصفحة")
				continue
			}
			if err := p.create(ctx); err != nil {
				fmt.Fprintf(c.out, "فشل الحفظ: %s\n", err)
				continue
			}
			fmt.Fprintln(c.out, "تم الحفظ بنجاح")
			reloadPage(ctx, c, p)
		case "edit":
			if p.edit == nil {
				fmt.Fprintln(c.out, "التعديل غير متاح في هذه الصفحة")
				continue
			}
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: edit <id>")
				continue
			}
			if err := p.edit(ctx, args[1]); err != nil {
				fmt.Fprintf(c.out, "فشل الحفظ: %s\n", err)
				continue
			}
			fmt.Fprintln(c.out, "تم الحفظ بنجاح")
			reloadPage(ctx, c, p)
		case "delete":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: delete <id>")
				continue
			}
			deleteRow(ctx, c, p, args[1])
		case "back", "exit":
			return
		default:
			fmt.Fprintln(c.out, "Commands: search <q>, clear, list, add, edit <id>, delete <id>, back")
		}
	}
}

// reloadPage refreshes the collection after a form save, keeping the
// active filter.
func reloadPage[T any](ctx context.Context, c *Console, p page[T]) {
	items, err := p.load(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر تحميل القائمة: %s\n", err)
		return
	}
	p.view.Load(items)
	p.render(c)
}

func (p page[T]) render(c *Console) {
	if p.view.Query() != "" {
		fmt.Fprintf(c.out, "-- %s (filter: %q, %d) --\n", p.title, p.view.Query(), p.view.Len())
	} else {
		fmt.Fprintf(c.out, "-- %s (%d) --\n", p.title, p.view.Len())
	}
	if c.compact() {
		return
	}
	for _, item := range p.view.Items() {
		fmt.Fprintln(c.out, p.row(item))
	}
}

func deleteRow[T any](ctx context.Context, c *Console, p page[T], id string) {
	if err := p.delete(ctx, id); err != nil {
		var callErr *rpc.Error
		if errors.As(err, &callErr) && callErr.IsForeignKeyViolation() {
			fmt.Fprintln(c.out, "لا يمكن الحذف لوجود سجلات مرتبطة بهذا العنصر")
		} else {
			fmt.Fprintf(c.out, "حدث خطأ أثناء الحذف: %s\n", err)
		}
		return
	}
	if p.view.Remove(id) {
		fmt.Fprintln(c.out, "تم الحذف بنجاح")
	} else {
		fmt.Fprintln(c.out, "تم الحذف (الصف غير معروض)")
	}
}

func (c *Console) usersPage(ctx context.Context) {
	runPage(ctx, c, page[models.User]{
		title: "users",
		view: NewListView(
			func(u models.User) string { return u.ID },
			func(u models.User) string { return u.Username },
			func(u models.User) string { return u.FullName },
			func(u models.User) string { return u.NationalNumber },
			func(u models.User) string { return u.Phone },
		),
		load: c.svc.Users.All,
		row: func(u models.User) string {
			state := "نشط"
			if !u.IsActive {
				state = "موقوف"
			}
			return fmt.Sprintf("%s  %-20s %-30s %s", u.ID, u.Username, u.FullName, state)
		},
		create: c.createUser,
		edit:   c.editUser,
		delete: c.svc.Users.Delete,
	})
}

func (c *Console) branchesPage(ctx context.Context) {
	runPage(ctx, c, page[models.Branch]{
		title: "branches",
		view: NewListView(
			func(b models.Branch) string { return b.ID },
			func(b models.Branch) string { return b.Name },
			func(b models.Branch) string { return b.Address },
		),
		load: c.svc.Branches.All,
		row: func(b models.Branch) string {
			return fmt.Sprintf("%s  %-25s %s", b.ID, b.Name, b.Address)
		},
		create: c.createBranch,
		edit:   c.editBranch,
		delete: c.svc.Branches.Delete,
	})
}

func (c *Console) shiftsPage(ctx context.Context) {
	runPage(ctx, c, page[models.Shift]{
		title: "shifts",
		view: NewListView(
			func(s models.Shift) string { return s.ID },
			func(s models.Shift) string { return s.Name },
			func(s models.Shift) string { return s.StartTime },
		),
		load: c.svc.Shifts.All,
		row: func(s models.Shift) string {
			return fmt.Sprintf("%s  %-25s %s (%.1fh)", s.ID, s.Name, s.StartTime, s.DurationHours)
		},
		create: c.createShift,
		edit:   c.editShift,
		delete: c.svc.Shifts.Delete,
	})
}

func (c *Console) attendanceTypesPage(ctx context.Context) {
	runPage(ctx, c, page[models.AttendanceType]{
		title: "attendance-types",
		view: NewListView(
			func(t models.AttendanceType) string { return t.ID },
			func(t models.AttendanceType) string { return t.Name },
			func(t models.AttendanceType) string { return t.Description },
		),
		load: c.svc.AttendanceTypes.All,
		row: func(t models.AttendanceType) string {
			return fmt.Sprintf("%s  %-25s %s", t.ID, t.Name, t.Description)
		},
		create: c.createAttendanceType,
		edit:   c.editAttendanceType,
		delete: c.svc.AttendanceTypes.Delete,
	})
}

func (c *Console) requestStatusesPage(ctx context.Context) {
	runPage(ctx, c, page[models.RequestStatus]{
		title: "request-statuses",
		view: NewListView(
			func(s models.RequestStatus) string { return s.ID },
			func(s models.RequestStatus) string { return s.Code },
			func(s models.RequestStatus) string { return s.NameAr },
		),
		load: c.svc.RequestStatuses.All,
		row: func(s models.RequestStatus) string {
			return fmt.Sprintf("%s  %-15s %s", s.ID, s.Code, s.NameAr)
		},
		create: c.createRequestStatus,
		edit:   c.editRequestStatus,
		delete: c.svc.RequestStatuses.Delete,
	})
}

func (c *Console) productsPage(ctx context.Context) {
	runPage(ctx, c, page[models.Product]{
		title: "products",
		view: NewListView(
			func(p models.Product) string { return p.ID },
			func(p models.Product) string { return p.Name },
			func(p models.Product) string { return p.ProdID },
		),
		load: c.svc.Products.All,
		row: func(p models.Product) string {
			return fmt.Sprintf("%s  %-25s بيع %.2f / شراء %.2f", p.ID, p.Name, p.SalePrice, p.BuyPrice)
		},
		create: c.createProduct,
		edit:   c.editProduct,
		delete: c.svc.Products.Delete,
	})
}

func (c *Console) inventoryItemsPage(ctx context.Context) {
	runPage(ctx, c, page[models.InventoryItem]{
		title: "inventory-items",
		view: NewListView(
			func(i models.InventoryItem) string { return i.ID },
			func(i models.InventoryItem) string { return i.Name },
			func(i models.InventoryItem) string { return i.Unit },
		),
		load: c.svc.InventoryItems.All,
		row: func(i models.InventoryItem) string {
			return fmt.Sprintf("%s  %-25s (%s)", i.ID, i.Name, i.Unit)
		},
		create: c.createInventoryItem,
		edit:   c.editInventoryItem,
		delete: c.svc.InventoryItems.Delete,
	})
}

// attendance manages a user's raw check-in/check-out rows for one month.
func (c *Console) attendance(ctx context.Context) {
	userID := c.prompt("معرف الموظف: ")
	year := c.promptInt("السنة: ")
	month := c.promptInt("الشهر: ")

	form := func() service.AttendanceRecordInput {
		return service.AttendanceRecordInput{
			UserID:           userID,
			BranchID:         c.prompt("معرف الفرع (اختياري): "),
			AttendanceTypeID: c.prompt("معرف نوع الحضور (اختياري): "),
			CheckIn:          c.prompt("وقت الحضور (اختياري): "),
			CheckOut:         c.prompt("وقت الانصراف (اختياري): "),
			Note:             c.prompt("ملاحظة (اختياري): "),
		}
	}

	runPage(ctx, c, page[models.AttendanceRecord]{
		title: "attendance",
		view: NewListView(
			func(r models.AttendanceRecord) string { return r.ID },
			func(r models.AttendanceRecord) string { return r.CheckIn },
			func(r models.AttendanceRecord) string { return r.Note },
		),
		load: func(ctx context.Context) ([]models.AttendanceRecord, error) {
			return c.svc.Attendance.MonthlyRecords(ctx, userID, year, month)
		},
		row: func(r models.AttendanceRecord) string {
			return fmt.Sprintf("%s  %-20s %-20s %s", r.ID, r.CheckIn, r.CheckOut, r.Note)
		},
		create: func(ctx context.Context) error {
			return c.svc.Attendance.Create(ctx, form())
		},
		edit: func(ctx context.Context, id string) error {
			return c.svc.Attendance.Update(ctx, id, form())
		},
		delete: c.svc.Attendance.Delete,
	})
}

// userNames loads the employee lookup used to label payroll rows with
// full names instead of raw ids. A failed load degrades to raw ids.
func (c *Console) userNames(ctx context.Context) map[string]string {
	users, err := c.svc.Users.All(ctx)
	if err != nil {
		return map[string]string{}
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func (c *Console) deductionsPage(ctx context.Context) {
	names := c.userNames(ctx)
	label := func(userID string) string {
		if name, ok := names[userID]; ok {
			return name
		}
		return userID
	}
	runPage(ctx, c, page[models.Deduction]{
		title: "deductions",
		view: NewListView(
			func(d models.Deduction) string { return d.ID },
			func(d models.Deduction) string { return label(d.UserID) },
			func(d models.Deduction) string { return d.Reason },
		),
		load: c.svc.Payroll.Deductions,
		row: func(d models.Deduction) string {
			return fmt.Sprintf("%s  %-30s %8.2f  %s", d.ID, label(d.UserID), d.Amount, d.Reason)
		},
		create: c.createDeduction,
		edit:   c.editDeduction,
		delete: c.svc.Payroll.DeleteDeduction,
	})
}

func (c *Console) additionsPage(ctx context.Context) {
	names := c.userNames(ctx)
	label := func(userID string) string {
		if name, ok := names[userID]; ok {
			return name
		}
		return userID
	}
	runPage(ctx, c, page[models.Addition]{
		title: "additions",
		view: NewListView(
			func(a models.Addition) string { return a.ID },
			func(a models.Addition) string { return label(a.UserID) },
			func(a models.Addition) string { return a.Reason },
		),
		load: c.svc.Payroll.Additions,
		row: func(a models.Addition) string {
			return fmt.Sprintf("%s  %-30s %8.2f  %s", a.ID, label(a.UserID), a.Amount, a.Reason)
		},
		create: c.createAddition,
		edit:   c.editAddition,
		delete: c.svc.Payroll.DeleteAddition,
	})
}

func (c *Console) transfer(ctx context.Context) {
	in := service.TransferInput{
		SourceBranchID: c.prompt("الفرع المصدر: "),
		TargetBranchID: c.prompt("الفرع الهدف: "),
		ItemID:         c.prompt("الصنف: "),
		Quantity:       c.promptFloat("الكمية: "),
		Note:           c.prompt("ملاحظة (اختياري): "),
	}
	if err := c.svc.BranchInventory.TransferStock(ctx, in); err != nil {
		fmt.Fprintf(c.out, "فشل النقل: %s\n", err)
		return
	}
	fmt.Fprintln(c.out, "تم نقل المخزون بنجاح")
}

func (c *Console) salary(ctx context.Context) {
	userID := c.prompt("معرف الموظف: ")
	year := c.promptInt("السنة: ")
	month := c.promptInt("الشهر: ")
	if year == 0 {
		year = time.Now().Year()
	}
	if month == 0 {
		month = int(time.Now().Month())
	}

	breakdown, err := c.svc.Payroll.MonthlySalary(ctx, userID, year, month)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر حساب الراتب: %s\n", err)
		return
	}
	fmt.Fprintf(c.out, "الراتب الأساسي: %.2f\n", breakdown.BaseSalary)
	fmt.Fprintf(c.out, "الإضافات: %.2f\n", breakdown.TotalAdditions)
	fmt.Fprintf(c.out, "الخصومات: %.2f\n", breakdown.TotalDeductions)
	fmt.Fprintf(c.out, "الصافي: %.2f\n", breakdown.FinalSalary)
}

func (c *Console) report(ctx context.Context) {
	userID := c.prompt("معرف الموظف: ")
	year := c.promptInt("السنة: ")
	month := c.promptInt("الشهر: ")

	days, err := c.svc.Payroll.MonthlyAttendanceByDays(ctx, userID, year, month)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر تحميل التقرير: %s\n", err)
		return
	}
	for _, d := range days {
		fmt.Fprintf(c.out, "%-12s %-8s %-8s %s\n", d.Day, d.CheckIn, d.CheckOut, d.Status)
	}
	fmt.Fprintf(c.out, "(%d يوم)\n", len(days))
}

func (c *Console) dash(ctx context.Context) {
	stats, err := c.svc.Dashboard.Stats(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر تحميل لوحة المعلومات: %s\n", err)
		return
	}
	fmt.Fprintf(c.out, "حضر اليوم: %d\n", stats.EmployeesWorkedToday)
	fmt.Fprintf(c.out, "يعمل الآن: %d\n", stats.CurrentlyWorking)
	fmt.Fprintf(c.out, "خصومات اليوم: %.2f\n", stats.DeductionsToday)
	fmt.Fprintf(c.out, "إضافات اليوم: %.2f\n", stats.AdditionsToday)
	for _, b := range stats.EmployeesPerBranchToday {
		fmt.Fprintf(c.out, "  %-25s %d\n", b.BranchName, b.EmployeesCount)
	}
}
