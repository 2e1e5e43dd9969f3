package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcefield/pkg/catalog"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	forceio "github.com/matzehuels/forcefield/pkg/io"
)

// graphsCommand groups the named-graph catalog commands.
func (c *CLI) graphsCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage the named graph catalog",
		Long: `Manage the named graph catalog.

Graphs stored in the catalog can be laid out and analyzed repeatedly
without re-uploading. The catalog lives in MongoDB; point --mongo (or
FORCEFIELD_MONGO_URI) at the same instance the server uses.`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo", os.Getenv("FORCEFIELD_MONGO_URI"), "MongoDB URI (default: $FORCEFIELD_MONGO_URI)")

	cmd.AddCommand(c.graphsListCommand(&mongoURI))
	cmd.AddCommand(c.graphsAddCommand(&mongoURI))
	cmd.AddCommand(c.graphsGetCommand(&mongoURI))
	cmd.AddCommand(c.graphsRemoveCommand(&mongoURI))

	return cmd
}

func (c *CLI) graphsListCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer c.closeCatalog(cat)

			summaries, err := cat.List(ctx)
			if err != nil {
				return fmt.Errorf("list graphs: %w", err)
			}
			if len(summaries) == 0 {
				printDetail("No graphs stored")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.Name, strconv.Itoa(s.NodeCount), strconv.Itoa(s.EdgeCount), formatRelativeTime(s.UpdatedAt)})
			}
			fmt.Println(newTable("Name", "Nodes", "Edges", "Updated").Rows(rows...).Render())
			return nil
		},
	}
}

func (c *CLI) graphsAddCommand(mongoURI *string) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store a graph under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if err := errors.ValidateGraphName(name); err != nil {
				return err
			}

			g, err := forceio.Import(ctx, input, nil)
			if err != nil {
				return err
			}

			cat, err := c.openCatalog(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer c.closeCatalog(cat)

			file := g.Export()
			file.Name = name
			if err := cat.Save(ctx, name, file); err != nil {
				return fmt.Errorf("save graph: %w", err)
			}

			printSuccess("Stored %s", name)
			printStats(g.NodeCount(), g.EdgeCount(), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "graph document to store (file path or URL)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) graphsGetCommand(mongoURI *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Fetch a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer c.closeCatalog(cat)

			entry, err := cat.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get graph: %w", err)
			}

			data, err := graph.MarshalFile(entry.Graph)
			if err != nil {
				return fmt.Errorf("encode graph: %w", err)
			}
			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Fetched %s", entry.Name)
			printFile(output)
			printDetail("updated %s", formatRelativeTime(entry.UpdatedAt))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")

	return cmd
}

func (c *CLI) graphsRemoveCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored graph",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer c.closeCatalog(cat)

			if err := cat.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("remove graph: %w", err)
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}

// openCatalog connects to the MongoDB catalog. The URI comes from --mongo
// or the FORCEFIELD_MONGO_URI environment variable.
func (c *CLI) openCatalog(ctx context.Context, uri string) (catalog.Catalog, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no catalog configured: pass --mongo or set FORCEFIELD_MONGO_URI")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cat, err := catalog.NewMongoCatalog(connectCtx, catalog.MongoConfig{URI: uri})
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	return cat, nil
}

func (c *CLI) closeCatalog(cat catalog.Catalog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cat.Close(ctx); err != nil {
		c.Logger.Error("close catalog", "error", err)
	}
}
