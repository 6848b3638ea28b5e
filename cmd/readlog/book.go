package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readlog/internal/bootstrap"
	bookdto "readlog/internal/modules/book/dto"
)

func newBookCmd(dataDir *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage the book catalog"}

	var title, author, filePath, status string
	var pages int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book and enroll it as to-read or read-next",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.BookCLI.Add(ctx, bookdto.AddBookInput{
				Title:      title,
				Author:     author,
				TotalPages: intFlag(cmd, "pages", pages),
				FilePath:   filePath,
				Status:     status,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) pages=%d session=%s %s\n",
				out.Book.Title, out.Book.ID, out.Book.TotalPages, out.SessionID, out.SessionStatus)
			return nil
		}),
	}
	add.Flags().StringVar(&title, "title", "", "book title (defaults to the file name)")
	add.Flags().StringVar(&author, "author", "", "author")
	add.Flags().IntVar(&pages, "pages", 0, "total pages (read from the PDF when omitted)")
	add.Flags().StringVar(&filePath, "file", "", "path to the book file")
	add.Flags().StringVar(&status, "status", "to-read", "initial status: to-read|read-next")

	list := &cobra.Command{
		Use:   "list",
		Short: "List books",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			books, err := app.BookCLI.List(ctx)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
				return nil
			}
			for _, b := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n", b.ID, b.Title, b.Author, b.TotalPages)
			}
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book with its active session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			b, err := app.BookCLI.Show(ctx, args[0])
			if err != nil {
				return err
			}
			history, err := app.SessionCLI.History(ctx, b.ID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderBook(b, history))
			return nil
		}),
	}

	var newTitle, newAuthor string
	var newPages int
	update := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Edit catalog fields",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			b, err := app.BookCLI.Update(ctx, bookdto.UpdateBookInput{
				BookID:     args[0],
				Title:      stringFlag(cmd, "title", newTitle),
				Author:     stringFlag(cmd, "author", newAuthor),
				TotalPages: intFlag(cmd, "pages", newPages),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s) pages=%d\n", b.Title, b.ID, b.TotalPages)
			return nil
		}),
	}
	update.Flags().StringVar(&newTitle, "title", "", "new title")
	update.Flags().StringVar(&newAuthor, "author", "", "new author")
	update.Flags().IntVar(&newPages, "pages", 0, "new total pages")

	del := &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Delete a book with its sessions and progress",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.BookCLI.Delete(ctx, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}

	book.AddCommand(add, list, show, update, del)
	return book
}
