// Package shell implements the interactive console: the login menu,
// the main shoe menu, and the drill-down selection flows. The shell
// owns every reprompt loop; the inventory services underneath are pure
// of terminal concerns and just report retryable vs terminal outcomes.
package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/solestash/solestash/internal/auth"
	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/models"
	"github.com/solestash/solestash/internal/prompt"
	"github.com/solestash/solestash/internal/repo"
)

// Prompt bounds, matching what the store accepts.
const (
	maxTextLen      = 100
	maxConditionLen = 50
	maxImageLen     = 255
	minSize         = 1.0
	maxSize         = 20.0
	minPrice        = 0.01
	maxPrice        = 100000.0
	minPasswordLen  = 8
	maxPasswordLen  = 72 // bcrypt input limit
)

// Shell drives one console session: log in, loop over the main menu,
// exit. A storage failure inside any action prints one message and
// falls back to the menu; it never ends the session.
type Shell struct {
	in  *prompt.Prompter
	out io.Writer

	auth     *auth.Service
	selector *inventory.Selector
	mutator  *inventory.Mutator
	lister   *inventory.Lister
}

// New wires a Shell over the given services and streams.
func New(in *prompt.Prompter, out io.Writer, authSvc *auth.Service, sel *inventory.Selector, mut *inventory.Mutator, lst *inventory.Lister) *Shell {
	return &Shell{in: in, out: out, auth: authSvc, selector: sel, mutator: mut, lister: lst}
}

// Run is the session entry point: the login menu, then the main menu
// until the user exits. Only end of input or an exit choice returns.
func (sh *Shell) Run() error {
	sess, err := sh.loginMenu()
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			return nil
		}
		return err
	}
	if sess == nil {
		return nil // chose exit
	}

	fmt.Fprintf(sh.out, "\nWelcome back, %s!\n", sess.Username)
	sh.mainMenu(sess.UserID)
	fmt.Fprintln(sh.out, "Goodbye!")
	return nil
}

// ==========================
// Login menu
// ==========================

func (sh *Shell) loginMenu() (*auth.Session, error) {
	for {
		fmt.Fprint(sh.out, "\n===== SoleStash =====\n")
		fmt.Fprintln(sh.out, "1. Create a new account")
		fmt.Fprintln(sh.out, "2. Login")
		fmt.Fprintln(sh.out, "3. Exit")

		choice, err := sh.in.Line("Enter your choice (1-3): ")
		if err != nil {
			return nil, err
		}

		switch choice {
		case "1":
			sess, err := sh.register()
			if err != nil {
				if sh.reportStorage(err) {
					continue
				}
				return nil, err
			}
			if sess != nil {
				return sess, nil
			}
		case "2":
			sess, err := sh.login()
			if err != nil {
				if sh.reportStorage(err) {
					continue
				}
				return nil, err
			}
			if sess != nil {
				return sess, nil
			}
		case "3":
			return nil, nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

// register collects a new account, pre-checking username and email
// availability with reprompts, then logs the fresh account in.
func (sh *Shell) register() (*auth.Session, error) {
	var username string
	for {
		u, err := sh.in.String("Choose a username: ", 1, 50)
		if err != nil {
			return nil, err
		}
		taken, err := sh.auth.UsernameTaken(u)
		if err != nil {
			return nil, err
		}
		if taken {
			fmt.Fprintln(sh.out, "That username is already taken. Please choose another.")
			continue
		}
		username = u
		break
	}

	var email string
	for {
		e, err := sh.in.Email("Enter your email: ")
		if err != nil {
			return nil, err
		}
		taken, err := sh.auth.EmailTaken(e)
		if err != nil {
			return nil, err
		}
		if taken {
			fmt.Fprintln(sh.out, "An account with that email already exists.")
			continue
		}
		email = e
		break
	}

	password, err := sh.in.Password("Choose a password: ")
	if err != nil {
		return nil, err
	}
	for len(password) < minPasswordLen || len(password) > maxPasswordLen {
		fmt.Fprintf(sh.out, "Password must be %d-%d characters.\n", minPasswordLen, maxPasswordLen)
		password, err = sh.in.Password("Choose a password: ")
		if err != nil {
			return nil, err
		}
	}

	if _, err := sh.auth.Register(username, email, password); err != nil {
		// The pre-checks can still lose a race to a concurrent insert.
		if errors.Is(err, repo.ErrUsernameTaken) || errors.Is(err, repo.ErrEmailTaken) {
			fmt.Fprintln(sh.out, "That username or email was just taken. Please try again.")
			return nil, nil
		}
		return nil, err
	}

	fmt.Fprintln(sh.out, "Account created successfully!")
	return sh.auth.Login(username, password)
}

func (sh *Shell) login() (*auth.Session, error) {
	username, err := sh.in.String("Username: ", 1, 50)
	if err != nil {
		return nil, err
	}
	password, err := sh.in.Password("Password: ")
	if err != nil {
		return nil, err
	}

	sess, err := sh.auth.Login(username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		fmt.Fprintln(sh.out, "Invalid username or password.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ==========================
// Main menu
// ==========================

// mainMenu loops until the user exits or input runs out. Every action
// returns here, whether it succeeded, found nothing, or hit the store.
func (sh *Shell) mainMenu(ownerID int) {
	for {
		fmt.Fprint(sh.out, "\n===== Shoe Collection =====\n")
		fmt.Fprintln(sh.out, "1. Add a new shoe")
		fmt.Fprintln(sh.out, "2. View all shoes")
		fmt.Fprintln(sh.out, "3. View a shoe")
		fmt.Fprintln(sh.out, "4. Edit a shoe")
		fmt.Fprintln(sh.out, "5. Delete a shoe")
		fmt.Fprintln(sh.out, "6. Exit")

		choice, err := sh.in.Line("Enter your choice (1-6): ")
		if err != nil {
			return
		}

		switch choice {
		case "1":
			err = sh.addShoe(ownerID)
		case "2":
			err = sh.viewAll(ownerID)
		case "3":
			err = sh.viewOne(ownerID)
		case "4":
			err = sh.editOne(ownerID)
		case "5":
			err = sh.deleteOne(ownerID)
		case "6":
			return
		default:
			fmt.Fprintln(sh.out, "Invalid choice. Please enter a number between 1 and 6.")
			continue
		}

		if errors.Is(err, prompt.ErrCancelled) {
			return
		}
		if err != nil {
			sh.reportStorage(err)
		}
	}
}

// ==========================
// Actions
// ==========================

func (sh *Shell) addShoe(ownerID int) error {
	brand, err := sh.in.String("Brand: ", 1, maxTextLen)
	if err != nil {
		return err
	}
	model, err := sh.in.String("Model: ", 1, maxTextLen)
	if err != nil {
		return err
	}
	colorway, err := sh.in.String("Colorway: ", 1, maxTextLen)
	if err != nil {
		return err
	}
	size, err := sh.in.Float(fmt.Sprintf("Size (%.1f-%.1f): ", minSize, maxSize), minSize, maxSize)
	if err != nil {
		return err
	}
	price, err := sh.in.Float("Price: ", minPrice, maxPrice)
	if err != nil {
		return err
	}
	image, err := sh.in.OptionalString("Image filename (optional): ", maxImageLen)
	if err != nil {
		return err
	}
	condition, err := sh.in.String("Condition (e.g. New, Used, Damaged): ", 1, maxConditionLen)
	if err != nil {
		return err
	}

	shoe, err := sh.mutator.Add(ownerID, inventory.NewShoe{
		Brand:     brand,
		Model:     model,
		Colorway:  colorway,
		Size:      size,
		Price:     price,
		Image:     image,
		Condition: condition,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(sh.out, "Added %s %s (id %d) to your collection.\n", shoe.Brand, shoe.Model, shoe.ID)
	return nil
}

func (sh *Shell) viewAll(ownerID int) error {
	groups, err := sh.lister.Grouped(ownerID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(sh.out, "No shoes found in the database")
		return nil
	}

	t := sh.newTable()
	t.AppendHeader(table.Row{"Brand", "Model", "Quantity"})
	for _, g := range groups {
		t.AppendRow(table.Row{g.Brand, g.Model, pairLabel(g.Count)})
	}
	t.Render()
	return nil
}

func (sh *Shell) viewOne(ownerID int) error {
	shoe, err := sh.selectShoe(ownerID)
	if err != nil || shoe == nil {
		return err
	}
	sh.printShoe(shoe)
	return nil
}

func (sh *Shell) editOne(ownerID int) error {
	shoe, err := sh.selectShoe(ownerID)
	if err != nil || shoe == nil {
		return err
	}
	return sh.editMenu(shoe)
}

func (sh *Shell) deleteOne(ownerID int) error {
	shoe, err := sh.selectShoe(ownerID)
	if err != nil || shoe == nil {
		return err
	}

	err = sh.mutator.Delete(shoe.ID)
	if errors.Is(err, repo.ErrShoeNotFound) {
		fmt.Fprintln(sh.out, "That shoe no longer exists.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Deleted %s %s (id %d).\n", shoe.Brand, shoe.Model, shoe.ID)
	return nil
}

// ==========================
// Drill-down selection
// ==========================

// selectShoe runs the four-stage funnel. A nil shoe with a nil error
// means nothing was selected and the message is already printed (empty
// collection or a vanished record); callers just fall back to the menu.
func (sh *Shell) selectShoe(ownerID int) (*models.Shoe, error) {
	// Stage 1: brands.
	brands, err := sh.selector.Brands(ownerID)
	if errors.Is(err, inventory.ErrNoShoes) {
		fmt.Fprintln(sh.out, "No shoes found in the database")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t := sh.newTable()
	t.AppendHeader(table.Row{"Brand", "Quantity"})
	for _, b := range brands {
		t.AppendRow(table.Row{b.Brand, pairLabel(b.Count)})
	}
	t.Render()

	// Stage 2: models, validating the brand by whether it matches.
	var brand string
	var mods []models.ModelCount
	for {
		brand, err = sh.in.String("Enter the brand: ", 1, maxTextLen)
		if err != nil {
			return nil, err
		}
		mods, err = sh.selector.Models(ownerID, brand)
		if errors.Is(err, inventory.ErrInvalidSelection) {
			fmt.Fprintln(sh.out, "No models found for that brand. Please try again.")
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	t = sh.newTable()
	t.AppendHeader(table.Row{"Model", "Quantity"})
	for _, m := range mods {
		t.AppendRow(table.Row{m.Model, pairLabel(m.Count)})
	}
	t.Render()

	// Stage 3: variants within brand+model.
	var model string
	var variants []models.VariantCount
	for {
		model, err = sh.in.String("Enter the model: ", 1, maxTextLen)
		if err != nil {
			return nil, err
		}
		variants, err = sh.selector.Variants(ownerID, brand, model)
		if errors.Is(err, inventory.ErrInvalidSelection) {
			fmt.Fprintln(sh.out, "No variants found for that model. Please try again.")
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	t = sh.newTable()
	t.AppendHeader(table.Row{"#", "Colorway", "Size", "Condition", "Quantity"})
	for i, v := range variants {
		t.AppendRow(table.Row{i + 1, v.Colorway, v.Size, v.Condition, pairLabel(v.Count)})
	}
	t.Render()

	// Variant pick: a 1-based index into the listing.
	var variant models.VariantCount
	for {
		input, err := sh.in.Line(fmt.Sprintf("Select a variant (1-%d): ", len(variants)))
		if err != nil {
			return nil, err
		}
		variant, err = inventory.PickVariant(variants, input)
		if errors.Is(err, inventory.ErrInvalidSelection) {
			fmt.Fprintf(sh.out, "Please enter a number between 1 and %d.\n", len(variants))
			continue
		}
		break
	}

	// Stage 4: representative record.
	shoe, err := sh.selector.Resolve(ownerID, brand, model, variant)
	if errors.Is(err, inventory.ErrNoShoes) {
		fmt.Fprintln(sh.out, "No shoe found with the given criteria")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shoe, nil
}

// ==========================
// Edit menu
// ==========================

// editMenu loops single-field updates until the user is done. Each
// update is its own committed write.
func (sh *Shell) editMenu(shoe *models.Shoe) error {
	for {
		sh.printShoe(shoe)
		fmt.Fprint(sh.out, "\n===== Edit Shoe =====\n")
		fmt.Fprintln(sh.out, "1. Brand")
		fmt.Fprintln(sh.out, "2. Model")
		fmt.Fprintln(sh.out, "3. Colorway")
		fmt.Fprintln(sh.out, "4. Size")
		fmt.Fprintln(sh.out, "5. Price")
		fmt.Fprintln(sh.out, "6. Image")
		fmt.Fprintln(sh.out, "7. Condition")
		fmt.Fprintln(sh.out, "8. Done")

		choice, err := sh.in.Line("Field to edit (1-8): ")
		if err != nil {
			return err
		}
		if choice == "8" {
			return nil
		}

		field, ok := fieldByChoice(choice)
		if !ok {
			fmt.Fprintln(sh.out, "Invalid choice. Please enter a number between 1 and 8.")
			continue
		}

		value, err := sh.promptField(field)
		if err != nil {
			return err
		}

		err = sh.mutator.UpdateField(shoe.ID, field, value)
		if errors.Is(err, repo.ErrShoeNotFound) {
			fmt.Fprintln(sh.out, "That shoe no longer exists.")
			return nil
		}
		if err != nil {
			return err
		}

		applyField(shoe, field, value)
		fmt.Fprintf(sh.out, "Updated %s.\n", field)
	}
}

// fieldByChoice maps an edit-menu digit onto the field it edits.
func fieldByChoice(choice string) (inventory.Field, bool) {
	switch choice {
	case "1":
		return inventory.FieldBrand, true
	case "2":
		return inventory.FieldModel, true
	case "3":
		return inventory.FieldColorway, true
	case "4":
		return inventory.FieldSize, true
	case "5":
		return inventory.FieldPrice, true
	case "6":
		return inventory.FieldImage, true
	case "7":
		return inventory.FieldCondition, true
	}
	return "", false
}

// promptField asks for the new value with the bounds the field carries.
func (sh *Shell) promptField(field inventory.Field) (any, error) {
	switch field {
	case inventory.FieldSize:
		return sh.in.Float(fmt.Sprintf("New size (%.1f-%.1f): ", minSize, maxSize), minSize, maxSize)
	case inventory.FieldPrice:
		return sh.in.Float("New price: ", minPrice, maxPrice)
	case inventory.FieldImage:
		// Empty clears the stored image.
		return sh.in.OptionalString("New image filename (empty to clear): ", maxImageLen)
	case inventory.FieldCondition:
		return sh.in.String("New condition: ", 1, maxConditionLen)
	default:
		return sh.in.String(fmt.Sprintf("New %s: ", field), 1, maxTextLen)
	}
}

// applyField mirrors a committed update onto the in-memory record so
// the edit menu shows current values.
func applyField(shoe *models.Shoe, field inventory.Field, value any) {
	switch field {
	case inventory.FieldBrand:
		shoe.Brand = value.(string)
	case inventory.FieldModel:
		shoe.Model = value.(string)
	case inventory.FieldColorway:
		shoe.Colorway = value.(string)
	case inventory.FieldSize:
		shoe.Size = value.(float64)
	case inventory.FieldPrice:
		shoe.Price = value.(float64)
	case inventory.FieldImage:
		s := value.(string)
		if s == "" {
			shoe.Image = nil
		} else {
			shoe.Image = &s
		}
	case inventory.FieldCondition:
		shoe.Condition = value.(string)
	}
}

// ==========================
// Rendering
// ==========================

func (sh *Shell) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(sh.out)
	return t
}

func (sh *Shell) printShoe(shoe *models.Shoe) {
	t := sh.newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", shoe.ID},
		{"Brand", shoe.Brand},
		{"Model", shoe.Model},
		{"Colorway", shoe.Colorway},
		{"Size", shoe.Size},
		{"Price", fmt.Sprintf("%.2f", shoe.Price)},
		{"Image", shoe.ImageLabel()},
		{"Condition", shoe.Condition},
	})
	t.Render()
}

// pairLabel renders a count the way the listings phrase it.
func pairLabel(n int) string {
	if n == 1 {
		return "1 Pair of Shoes"
	}
	return fmt.Sprintf("%d Pairs of Shoes", n)
}

// reportStorage prints the user-facing message for a storage failure
// and reports whether the error was one. Non-storage errors (cancelled
// input) are left to the caller.
func (sh *Shell) reportStorage(err error) bool {
	if errors.Is(err, prompt.ErrCancelled) {
		return false
	}
	fmt.Fprintln(sh.out, repo.Message(err))
	return true
}
