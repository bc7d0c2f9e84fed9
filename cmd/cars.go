package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/carfront/internal/cars"
	"github.com/ziadkadry99/carfront/internal/progress"
)

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "List, show, add, delete and import cars",
}

var carsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every car",
	Args:  cobra.NoArgs,
	RunE:  runCarsList,
}

var carsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one car",
	Args:  cobra.ExactArgs(1),
	RunE:  runCarsShow,
}

var carsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a car",
	Long:  `Adds a car. Values are validated the same way as the creation form of the web pages.`,
	Args:  cobra.NoArgs,
	RunE:  runCarsAdd,
}

var carsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a car",
	Long:  `Deletes a car after asking for confirmation. Use --yes to skip the prompt.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCarsDelete,
}

var carsImportCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Create cars from JSON files",
	Long: `Creates every car found in the JSON files matching the given patterns.
Each file holds a single car object or an array of them. Patterns support **.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCarsImport,
}

func init() {
	carsListCmd.Flags().Bool("json", false, "output cars as JSON")

	carsAddCmd.Flags().String(cars.FieldBrand, "", "brand (required)")
	carsAddCmd.Flags().String(cars.FieldModel, "", "model (required)")
	carsAddCmd.Flags().String(cars.FieldYear, "", "model year (required)")
	carsAddCmd.Flags().String(cars.FieldColor, "", "color (required)")
	carsAddCmd.Flags().String(cars.FieldPrice, "", "price in euros (required)")
	carsAddCmd.Flags().String(cars.FieldMileage, "", "mileage in km (required)")
	carsAddCmd.Flags().String(cars.FieldDescription, "", "description, Markdown allowed")
	carsAddCmd.Flags().String("image-url", "", "absolute http(s) image URL")

	carsDeleteCmd.Flags().BoolP("yes", "y", false, "delete without asking")

	carsCmd.AddCommand(carsListCmd, carsShowCmd, carsAddCmd, carsDeleteCmd, carsImportCmd)
	rootCmd.AddCommand(carsCmd)
}

func carsClient() (*cars.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newClient(cfg)
}

func runCarsList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	client, err := carsClient()
	if err != nil {
		return err
	}

	list, err := client.ListCars(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing cars: %w", err)
	}

	if jsonOutput {
		if list == nil {
			list = []cars.Car{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No cars available.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBRAND\tMODEL\tYEAR\tPRICE\tMILEAGE\tCOLOR")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s €\t%d km\t%s\n",
			c.ID, c.Brand, c.Model, c.Year, cars.FormatPrice(c.Price), c.Mileage, c.Color)
	}
	return w.Flush()
}

func runCarsShow(cmd *cobra.Command, args []string) error {
	client, err := carsClient()
	if err != nil {
		return err
	}

	car, err := client.GetCar(cmd.Context(), args[0])
	if errors.Is(err, cars.ErrNotFound) {
		return fmt.Errorf("car %q not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("fetching car: %w", err)
	}

	printCar(car)
	return nil
}

func printCar(c *cars.Car) {
	fmt.Printf("%d %s\n\n", c.Year, c.Title())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID:\t%s\n", c.ID)
	fmt.Fprintf(w, "  Brand:\t%s\n", c.Brand)
	fmt.Fprintf(w, "  Model:\t%s\n", c.Model)
	fmt.Fprintf(w, "  Year:\t%d\n", c.Year)
	fmt.Fprintf(w, "  Price:\t%s €\n", cars.FormatPrice(c.Price))
	fmt.Fprintf(w, "  Mileage:\t%d km\n", c.Mileage)
	fmt.Fprintf(w, "  Color:\t%s\n", c.Color)
	if c.ImageURL != "" {
		fmt.Fprintf(w, "  Image:\t%s\n", c.ImageURL)
	}
	w.Flush()
	fmt.Printf("\n%s\n", c.DescriptionOr("No description"))
}

func runCarsAdd(cmd *cobra.Command, args []string) error {
	values := url.Values{}
	for _, name := range cars.FormFields {
		flag := name
		if name == cars.FieldImageURL {
			flag = "image-url"
		}
		v, _ := cmd.Flags().GetString(flag)
		values.Set(name, v)
	}

	nc, err := cars.ParseForm(values)
	if err != nil {
		return err
	}

	client, err := carsClient()
	if err != nil {
		return err
	}

	created, err := client.CreateCar(cmd.Context(), nc)
	if err != nil {
		return fmt.Errorf("creating car: %w", err)
	}

	fmt.Printf("Car added! (id %s)\n", created.ID)
	return nil
}

func runCarsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	yes, _ := cmd.Flags().GetBool("yes")

	client, err := carsClient()
	if err != nil {
		return err
	}

	if !yes {
		label := fmt.Sprintf("Delete car %s", id)
		if car, err := client.GetCar(cmd.Context(), id); err == nil {
			label = fmt.Sprintf("Delete car %s (%d %s)", id, car.Year, car.Title())
		} else if errors.Is(err, cars.ErrNotFound) {
			return fmt.Errorf("car %q not found", id)
		}

		prompt := promptui.Prompt{
			Label:     label + ". This cannot be undone",
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		}
	}

	if err := client.DeleteCar(cmd.Context(), id); err != nil {
		return fmt.Errorf("unable to delete the car: %w", err)
	}

	fmt.Println("Car deleted!")
	return nil
}

func runCarsImport(cmd *cobra.Command, args []string) error {
	files, err := cars.ExpandImportPatterns(args)
	if err != nil {
		return err
	}

	var batch []cars.NewCar
	for _, f := range files {
		list, err := cars.ReadImportFile(f)
		if err != nil {
			return err
		}
		batch = append(batch, list...)
		if verbose {
			fmt.Fprintf(os.Stderr, "%s: %d car(s)\n", f, len(list))
		}
	}
	if len(batch) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	client, err := carsClient()
	if err != nil {
		return err
	}

	created, failed := importCars(cmd.Context(), client, batch, progress.NewReporter())

	fmt.Printf("Imported %d of %d cars.\n", created, len(batch))
	if failed > 0 {
		return fmt.Errorf("%d car(s) could not be created", failed)
	}
	return nil
}

// importCars creates each car in turn. Failures are reported and skipped.
func importCars(ctx context.Context, svc cars.Service, batch []cars.NewCar, reporter progress.Reporter) (created, failed int) {
	reporter.Start(len(batch))
	for i, nc := range batch {
		label := strconv.Itoa(nc.Year) + " " + nc.Brand + " " + nc.Model
		if _, err := svc.CreateCar(ctx, nc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", label, err)
			failed++
		} else {
			created++
		}
		reporter.Update(i+1, label)
	}
	reporter.Finish()
	return created, failed
}
