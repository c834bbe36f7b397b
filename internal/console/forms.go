package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/service"
)

// Prompt-driven forms standing in for the entity form views: each
// collects the same fields the original page submits, then calls the
// matching insert or update operation.

func (c *Console) promptBool(label string) bool {
	switch strings.ToLower(c.prompt(label)) {
	case "y", "yes", "true", "1", "نعم":
		return true
	}
	return false
}

// promptFloatPtr reads an optional float; blank input stays unset.
func (c *Console) promptFloatPtr(label string) *float64 {
	raw := c.prompt(label)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (c *Console) userForm() (service.UserInput, string) {
	in := service.UserInput{
		Username:                c.prompt("اسم المستخدم: "),
		FullName:                c.prompt("الاسم الكامل: "),
		NationalNumber:          c.prompt("الرقم القومي: "),
		Email:                   c.prompt("البريد الإلكتروني (اختياري): "),
		Phone:                   c.prompt("الهاتف (اختياري): "),
		IsActive:                c.promptBool("نشط؟ (y/n): "),
		ShiftID:                 c.prompt("معرف الوردية (اختياري): "),
		BaseSalary:              c.promptFloat("الراتب الأساسي: "),
		OfficialOffDaysPerMonth: c.promptInt("أيام الإجازة الشهرية: "),
	}
	passcode := c.prompt("كود المرور (اتركه فارغا للإبقاء): ")
	return in, passcode
}

func (c *Console) createUser(ctx context.Context) error {
	in, passcode := c.userForm()
	return c.svc.Users.Create(ctx, in, passcode)
}

func (c *Console) editUser(ctx context.Context, id string) error {
	in, passcode := c.userForm()
	return c.svc.Users.Update(ctx, id, in, passcode)
}

func (c *Console) branchForm() service.BranchInput {
	return service.BranchInput{
		Name:      c.prompt("اسم الفرع: "),
		Address:   c.prompt("العنوان (اختياري): "),
		Latitude:  c.promptFloatPtr("خط العرض (اختياري): "),
		Longitude: c.promptFloatPtr("خط الطول (اختياري): "),
	}
}

func (c *Console) createBranch(ctx context.Context) error {
	return c.svc.Branches.Create(ctx, c.branchForm())
}

func (c *Console) editBranch(ctx context.Context, id string) error {
	return c.svc.Branches.Update(ctx, id, c.branchForm())
}

func (c *Console) shiftForm() service.ShiftInput {
	return service.ShiftInput{
		Name:                 c.prompt("اسم الوردية: "),
		StartTime:            c.prompt("وقت البداية (HH:MM): "),
		DurationHours:        c.promptFloat("المدة بالساعات: "),
		CheckinGraceMinutes:  c.promptInt("سماحية الحضور بالدقائق: "),
		CheckoutGraceMinutes: c.promptInt("سماحية الانصراف بالدقائق: "),
	}
}

func (c *Console) createShift(ctx context.Context) error {
	return c.svc.Shifts.Create(ctx, c.shiftForm())
}

func (c *Console) editShift(ctx context.Context, id string) error {
	return c.svc.Shifts.Update(ctx, id, c.shiftForm())
}

func (c *Console) createAttendanceType(ctx context.Context) error {
	name := c.prompt("الاسم: ")
	description := c.prompt("الوصف (اختياري): ")
	return c.svc.AttendanceTypes.Create(ctx, name, description)
}

func (c *Console) editAttendanceType(ctx context.Context, id string) error {
	name := c.prompt("الاسم: ")
	description := c.prompt("الوصف (اختياري): ")
	return c.svc.AttendanceTypes.Update(ctx, id, name, description)
}

func (c *Console) createRequestStatus(ctx context.Context) error {
	code := c.prompt("الرمز: ")
	nameAr := c.prompt("الاسم بالعربية: ")
	return c.svc.RequestStatuses.Create(ctx, code, nameAr)
}

func (c *Console) editRequestStatus(ctx context.Context, id string) error {
	code := c.prompt("الرمز: ")
	nameAr := c.prompt("الاسم بالعربية: ")
	return c.svc.RequestStatuses.Update(ctx, id, code, nameAr)
}

func (c *Console) productForm() service.ProductInput {
	return service.ProductInput{
		ProdID:      c.prompt("رمز المنتج (اختياري): "),
		Name:        c.prompt("اسم المنتج: "),
		CategoryID:  c.prompt("معرف التصنيف (اختياري): "),
		SalePrice:   c.promptFloat("سعر البيع: "),
		BuyPrice:    c.promptFloat("سعر الشراء: "),
		IsAvailable: c.promptBool("متاح؟ (y/n): "),
	}
}

func (c *Console) createProduct(ctx context.Context) error {
	return c.svc.Products.Create(ctx, c.productForm())
}

func (c *Console) editProduct(ctx context.Context, id string) error {
	return c.svc.Products.Update(ctx, id, c.productForm())
}

func (c *Console) createInventoryItem(ctx context.Context) error {
	name := c.prompt("اسم الصنف: ")
	unit := c.prompt("الوحدة: ")
	description := c.prompt("الوصف (اختياري): ")
	return c.svc.InventoryItems.Create(ctx, name, unit, description)
}

func (c *Console) editInventoryItem(ctx context.Context, id string) error {
	name := c.prompt("اسم الصنف: ")
	unit := c.prompt("الوحدة: ")
	description := c.prompt("الوصف (اختياري): ")
	return c.svc.InventoryItems.Update(ctx, id, name, unit, description)
}

// adjustmentForm stamps the current operator as the creator.
func (c *Console) adjustmentForm() service.AdjustmentInput {
	in := service.AdjustmentInput{
		UserID: c.prompt("معرف الموظف: "),
		Amount: c.promptFloat("المبلغ: "),
		Reason: c.prompt("السبب: "),
	}
	if operator := c.session.CurrentUser(); operator != nil {
		in.CreatedBy = operator.ID
	}
	return in
}

func (c *Console) createDeduction(ctx context.Context) error {
	return c.svc.Payroll.CreateDeduction(ctx, c.adjustmentForm())
}

func (c *Console) editDeduction(ctx context.Context, id string) error {
	return c.svc.Payroll.UpdateDeduction(ctx, id, c.adjustmentForm())
}

func (c *Console) createAddition(ctx context.Context) error {
	return c.svc.Payroll.CreateAddition(ctx, c.adjustmentForm())
}

func (c *Console) editAddition(ctx context.Context, id string) error {
	return c.svc.Payroll.UpdateAddition(ctx, id, c.adjustmentForm())
}

// assignShift moves one employee to a shift; blank shift id unassigns.
func (c *Console) assignShift(ctx context.Context) {
	userID := c.prompt("معرف الموظف: ")
	shiftID := c.prompt("معرف الوردية (فارغ لإلغاء التعيين): ")
	if err := c.svc.Users.AssignShift(ctx, userID, shiftID); err != nil {
		fmt.Fprintf(c.out, "فشل تعيين الوردية: %s\n", err)
		return
	}
	fmt.Fprintln(c.out, "تم تعيين الوردية بنجاح")
}

// instantSalary runs the ad-hoc salary calculation over a date range.
func (c *Console) instantSalary(ctx context.Context) {
	in := service.InstantSalaryInput{
		UserID:         c.prompt("معرف الموظف: "),
		StartDate:      c.prompt("من تاريخ (YYYY-MM-DD): "),
		EndDate:        c.prompt("إلى تاريخ (YYYY-MM-DD): "),
		BaseSalary:     c.promptFloat("الراتب الأساسي: "),
		AllowedOffDays: c.promptInt("أيام الإجازة المسموحة: "),
		ShiftHours:     c.promptFloat("ساعات الوردية: "),
	}
	breakdown, err := c.svc.Payroll.InstantSalary(ctx, in)
	if err != nil {
		fmt.Fprintf(c.out, "تعذر حساب الراتب: %s\n", err)
		return
	}
	fmt.Fprintf(c.out, "الراتب الأساسي: %.2f\n", breakdown.BaseSalary)
	fmt.Fprintf(c.out, "الإضافات: %.2f\n", breakdown.TotalAdditions)
	fmt.Fprintf(c.out, "الخصومات: %.2f\n", breakdown.TotalDeductions)
	fmt.Fprintf(c.out, "الصافي: %.2f\n", breakdown.FinalSalary)
}

// stockPage lists branch stock levels, optionally for a single branch.
func (c *Console) stockPage(ctx context.Context) {
	branchID := c.prompt("معرف الفرع (فارغ لعرض الكل): ")
	load := c.svc.BranchInventory.All
	if branchID != "" {
		load = func(ctx context.Context) ([]models.BranchInventory, error) {
			return c.svc.BranchInventory.ByBranch(ctx, branchID)
		}
	}
	runPage(ctx, c, page[models.BranchInventory]{
		title: "stock",
		view: NewListView(
			func(b models.BranchInventory) string { return b.ID },
			func(b models.BranchInventory) string { return b.BranchID },
			func(b models.BranchInventory) string { return b.ItemID },
		),
		load: load,
		row: func(b models.BranchInventory) string {
			return fmt.Sprintf("%s  فرع %-36s صنف %-36s %10.2f", b.ID, b.BranchID, b.ItemID, b.Quantity)
		},
		create: func(ctx context.Context) error {
			return c.svc.BranchInventory.Create(ctx,
				c.prompt("معرف الفرع: "),
				c.prompt("معرف الصنف: "),
				c.promptFloat("الكمية: "))
		},
		edit: func(ctx context.Context, id string) error {
			return c.svc.BranchInventory.Update(ctx, id, c.promptFloat("الكمية الجديدة: "))
		},
		delete: c.svc.BranchInventory.Delete,
	})
}

// transactions prints the stock movement audit trail, optionally
// filtered by branch or item.
func (c *Console) transactions(ctx context.Context) {
	branchID := c.prompt("معرف الفرع (اختياري): ")
	itemID := c.prompt("معرف الصنف (اختياري): ")

	var (
		rows []models.InventoryTransaction
		err  error
	)
	switch {
	case branchID != "":
		rows, err = c.svc.BranchInventory.TransactionsByBranch(ctx, branchID)
	case itemID != "":
		rows, err = c.svc.BranchInventory.TransactionsByItem(ctx, itemID)
	default:
		rows, err = c.svc.BranchInventory.Transactions(ctx)
	}
	if err != nil {
		fmt.Fprintf(c.out, "تعذر تحميل الحركات: %s\n", err)
		return
	}
	for _, tx := range rows {
		fmt.Fprintf(c.out, "%s  %-10s %10.2f  %s\n", tx.ID, tx.Kind, tx.Quantity, tx.Note)
	}
	fmt.Fprintf(c.out, "(%d حركة)\n", len(rows))
}

// recipes serves one product's recipe lines with their own subloop.
func (c *Console) recipes(ctx context.Context) {
	productID := c.prompt("معرف المنتج: ")
	if productID == "" {
		fmt.Fprintln(c.out, "يرجى إدخال معرف المنتج")
		return
	}

	list := func() {
		lines, err := c.svc.Products.Recipes(ctx, productID)
		if err != nil {
			fmt.Fprintf(c.out, "تعذر تحميل الوصفة: %s\n", err)
			return
		}
		for _, line := range lines {
			fmt.Fprintf(c.out, "%s  صنف %-36s %10.2f\n", line.ID, line.ItemID, line.Quantity)
		}
		fmt.Fprintf(c.out, "(%d مكون)\n", len(lines))
	}
	list()

	for {
		fmt.Fprint(c.out, "recipes> ")
		if !c.in.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(c.in.Text()))
		if len(args) == 0 {
			continue
		}
		c.session.NotifyActivity()

		switch args[0] {
		case "list":
			list()
		case "add":
			itemID := c.prompt("معرف الصنف: ")
			quantity := c.promptFloat("الكمية: ")
			if err := c.svc.Products.AddRecipe(ctx, productID, itemID, quantity); err != nil {
				fmt.Fprintf(c.out, "فشل الحفظ: %s\n", err)
				continue
			}
			list()
		case "edit":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: edit <id>")
				continue
			}
			quantity := c.promptFloat("الكمية الجديدة: ")
			if err := c.svc.Products.UpdateRecipe(ctx, args[1], quantity); err != nil {
				fmt.Fprintf(c.out, "فشل الحفظ: %s\n", err)
				continue
			}
			list()
		case "delete":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: delete <id>")
				continue
			}
			if err := c.svc.Products.DeleteRecipe(ctx, args[1]); err != nil {
				fmt.Fprintf(c.out, "حدث خطأ أثناء الحذف: %s\n", err)
				continue
			}
			list()
		case "delitem":
			if len(args) < 2 {
				fmt.Fprintln(c.out, "Usage: delitem <itemID>")
				continue
			}
			if err := c.svc.Products.DeleteRecipeByItem(ctx, productID, args[1]); err != nil {
				fmt.Fprintf(c.out, "حدث خطأ أثناء الحذف: %s\n", err)
				continue
			}
			list()
		case "back", "exit":
			return
		default:
			fmt.Fprintln(c.out, "Commands: list, add, edit <id>, delete <id>, delitem <itemID>, back")
		}
	}
}
