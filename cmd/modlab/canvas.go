package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/localcache"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/matthallesq/modlab/internal/ux"
)

func (c *cli) canvasCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "View and edit a project's canvas",
		Long: `Canvas commands work on the project's chosen template unless --type
names another one. Items cycle assumption -> testing -> validated.`,
	}
	cmd.PersistentFlags().StringVar(&typeName, "type", "", "canvas template (defaults to the project's model type)")

	show := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print every section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, t, err := c.canvasTarget(cmd.Context(), args[0], typeName)
			if err != nil {
				return err
			}
			cv, err := c.fetchCanvas(cmd.Context(), p.ID, t)
			if err != nil {
				return err
			}
			return c.printCanvas(cv)
		},
	}

	add := &cobra.Command{
		Use:   "add PROJECT SECTION TEXT",
		Short: "Add an item to a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := canvas.ParseSection(args[1])
			if err != nil {
				return err
			}
			return c.mutateCanvas(cmd.Context(), args[0], typeName, func(ctx context.Context, client *remote.Client, projectID string, t canvas.Type, _ *canvas.Canvas) (*canvas.Canvas, error) {
				return client.AddCanvasItem(ctx, projectID, t, section, args[2])
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit PROJECT ITEM TEXT",
		Short: "Replace an item's text",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutateCanvas(cmd.Context(), args[0], typeName, func(ctx context.Context, client *remote.Client, projectID string, t canvas.Type, cv *canvas.Canvas) (*canvas.Canvas, error) {
				item, err := findItem(cv, args[1])
				if err != nil {
					return nil, err
				}
				return client.UpdateCanvasItem(ctx, projectID, t, item.ID, args[2])
			})
		},
	}

	cycle := &cobra.Command{
		Use:   "cycle PROJECT ITEM",
		Short: "Advance an item's evidence status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutateCanvas(cmd.Context(), args[0], typeName, func(ctx context.Context, client *remote.Client, projectID string, t canvas.Type, cv *canvas.Canvas) (*canvas.Canvas, error) {
				item, err := findItem(cv, args[1])
				if err != nil {
					return nil, err
				}
				return client.CycleCanvasItem(ctx, projectID, t, item.ID)
			})
		},
	}

	remove := &cobra.Command{
		Use:     "rm PROJECT ITEM",
		Aliases: []string{"remove"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutateCanvas(cmd.Context(), args[0], typeName, func(ctx context.Context, client *remote.Client, projectID string, t canvas.Type, cv *canvas.Canvas) (*canvas.Canvas, error) {
				item, err := findItem(cv, args[1])
				if err != nil {
					return nil, err
				}
				return client.RemoveCanvasItem(ctx, projectID, t, item.ID)
			})
		},
	}

	cmd.AddCommand(show, add, edit, cycle, remove)
	return cmd
}

// canvasTarget resolves the project and the template to work on.
func (c *cli) canvasTarget(ctx context.Context, ref, typeName string) (project.Project, canvas.Type, error) {
	ws, err := c.tenant(ctx)
	if err != nil {
		return project.Project{}, "", err
	}
	p, err := resolve(ws.ProjectList(), ref, "project")
	if err != nil {
		return project.Project{}, "", err
	}
	if typeName != "" {
		t, err := canvas.ParseType(typeName)
		return p, t, err
	}
	if p.ModelType != nil {
		return p, *p.ModelType, nil
	}
	return p, canvas.TypeBusinessModel, nil
}

// fetchCanvas reads the canvas from the store and mirrors it. Without a
// store, or when the store is unreachable, the mirrored copy is used.
func (c *cli) fetchCanvas(ctx context.Context, projectID string, t canvas.Type) (*canvas.Canvas, error) {
	cache, err := c.openCache()
	if err != nil {
		return nil, err
	}
	key := localcache.CanvasKey(projectID, string(t))

	if c.client != nil {
		cv, err := c.client.GetCanvas(ctx, projectID, t)
		if err == nil {
			if perr := cache.Put(ctx, key, cv); perr != nil {
				c.logger.Warn("mirroring canvas", "error", perr)
			}
			return cv, nil
		}
		var apiErr *remote.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		c.printer.Warning("store unreachable, showing cached canvas: " + err.Error())
	}

	var cached canvas.Canvas
	ok, err := cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if !ok {
		return canvas.Empty(projectID, t), nil
	}
	return &cached, nil
}

type canvasMutation func(ctx context.Context, client *remote.Client, projectID string, t canvas.Type, current *canvas.Canvas) (*canvas.Canvas, error)

// mutateCanvas applies fn against the store and mirrors the result. Canvas
// edits have no offline path.
func (c *cli) mutateCanvas(ctx context.Context, ref, typeName string, fn canvasMutation) error {
	client, err := c.requireClient()
	if err != nil {
		return err
	}
	p, t, err := c.canvasTarget(ctx, ref, typeName)
	if err != nil {
		return err
	}
	current, err := client.GetCanvas(ctx, p.ID, t)
	if err != nil {
		return err
	}
	updated, err := fn(ctx, client, p.ID, t, current)
	if err != nil {
		return err
	}
	cache, err := c.openCache()
	if err != nil {
		return err
	}
	if err := cache.Put(ctx, localcache.CanvasKey(p.ID, string(t)), updated); err != nil {
		c.logger.Warn("mirroring canvas", "error", err)
	}
	return c.printCanvas(updated)
}

func (c *cli) printCanvas(cv *canvas.Canvas) error {
	return c.emit(cv, func() { c.printer.Block(ux.Canvas(cv, terminalWidth(0))) })
}

type canvasItem struct {
	canvas.Item
}

func (i canvasItem) Key() string { return i.ID }

func findItem(cv *canvas.Canvas, ref string) (canvas.Item, error) {
	var items []canvasItem
	for _, s := range canvas.Sections(cv.Type) {
		for _, it := range cv.Sections[s] {
			items = append(items, canvasItem{it})
		}
	}
	found, err := resolve(items, ref, "item")
	return found.Item, err
}
