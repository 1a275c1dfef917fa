// Command builder is an interactive terminal client for assembling a class
// session: pick exercises, attach songs, reorder, and save. A background
// scheduler autosaves the draft while you work.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"lsb-music/internal/app"
	"lsb-music/internal/autosave"
	"lsb-music/internal/bootstrap"
	"lsb-music/internal/cache"
	"lsb-music/internal/editor"
	"lsb-music/internal/platform/rabbitmq"
	"lsb-music/internal/repository"
)

func main() {
	ctx := context.Background()

	boot, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		if err := boot.Close(); err != nil {
			log.Printf("close resources failed: %v", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(boot.MySQL)
	catalogueRepo := repository.NewCatalogueRepository(boot.MySQL)
	catalogueCache := cache.NewCatalogueCache(
		boot.Redis,
		time.Duration(boot.Config.Redis.CatalogueTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewSessionEventPublisher(boot.MQConn, boot.Config.RabbitMQ.SessionEventQueue)

	sessions := app.NewSessionService(sessionRepo, publisher)
	catalogue := app.NewCatalogueService(catalogueRepo, catalogueCache)

	state := editor.New()
	scheduler := autosave.New(
		state,
		sessions,
		time.Duration(boot.Config.Autosave.IntervalSeconds)*time.Second,
	)
	scheduler.Start()
	defer scheduler.Stop()

	repl := &builderREPL{
		ctx:       ctx,
		state:     state,
		sessions:  sessions,
		catalogue: catalogue,
	}
	repl.run()
}

type builderREPL struct {
	ctx       context.Context
	state     *editor.State
	sessions  *app.SessionService
	catalogue *app.CatalogueService
}

func (r *builderREPL) run() {
	fmt.Println("session builder; type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(r.prompt())
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, args := splitCommand(line)
		if cmd == "quit" || cmd == "exit" {
			if r.state.Dirty() {
				fmt.Println("warning: unsaved changes discarded")
			}
			return
		}
		if err := r.dispatch(cmd, args); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (r *builderREPL) prompt() string {
	marker := ""
	if r.state.Dirty() {
		marker = "*"
	}
	name := r.state.Name()
	if name == "" {
		name = "draft"
	}
	return fmt.Sprintf("[%s%s] > ", name, marker)
}

func (r *builderREPL) dispatch(cmd string, args string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "show":
		return r.show()
	case "set":
		return r.setField(args)
	case "add":
		return r.add(args)
	case "move":
		return r.move(args)
	case "pos":
		return r.moveToPosition(args)
	case "rm":
		return r.remove(args)
	case "song":
		return r.setSong(args)
	case "notes":
		return r.setNotes(args)
	case "save":
		return r.save()
	case "new":
		r.state.Reset()
		fmt.Println("started a fresh draft")
		return nil
	case "list":
		return r.list()
	case "load":
		return r.load(args)
	case "delete":
		return r.deleteSession(args)
	case "exercises":
		return r.listExercises(args)
	case "songs":
		return r.songsFor(args)
	case "find":
		return r.findBySong(args)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func (r *builderREPL) show() error {
	snap := r.state.Snapshot()
	fmt.Printf("name:  %s\n", snap.Name)
	fmt.Printf("date:  %s  tags: %s\n", snap.Date, snap.Tags)
	if snap.Description != "" {
		fmt.Printf("desc:  %s\n", snap.Description)
	}
	if snap.ID != "" {
		fmt.Printf("id:    %s (version %d)\n", snap.ID, snap.Version)
	}
	if len(snap.Entries) == 0 {
		fmt.Println("(no entries yet, use 'add')")
		return nil
	}
	for i, e := range snap.Entries {
		song := "-"
		if e.SongRef != "" {
			song = e.SongRef
		}
		fmt.Printf("%3d. %-40s song: %-10s", i, e.Label, song)
		if e.Notes != "" {
			fmt.Printf(" notes: %s", e.Notes)
		}
		fmt.Println()
	}
	return nil
}

func (r *builderREPL) setField(args string) error {
	field, value := splitCommand(args)
	if field == "" {
		return errors.New("usage: set name|description|date|tags <value>")
	}
	return r.state.SetField(editor.Field(field), value)
}

func (r *builderREPL) add(args string) error {
	id, label := splitCommand(args)
	if id == "" {
		return errors.New("usage: add <exercise-id> [label]")
	}
	exercise, err := r.catalogue.LookupExercise(r.ctx, id)
	if err != nil {
		return err
	}
	if label == "" {
		label = fmt.Sprintf("%s [id %s]", exercise.Name, exercise.ID)
	}
	r.state.Append(exercise.ID, label)
	fmt.Printf("added %s at position %d\n", exercise.Name, r.state.Len())
	return nil
}

func (r *builderREPL) move(args string) error {
	rawIndex, rawDir := splitCommand(args)
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return errors.New("usage: move <index> up|down")
	}
	switch rawDir {
	case "up":
		return r.state.Move(index, editor.Up)
	case "down":
		return r.state.Move(index, editor.Down)
	default:
		return errors.New("usage: move <index> up|down")
	}
}

func (r *builderREPL) moveToPosition(args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return errors.New("usage: pos <index> <new-position>")
	}
	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.New("usage: pos <index> <new-position>")
	}
	position, err := strconv.Atoi(fields[1])
	if err != nil {
		return errors.New("usage: pos <index> <new-position>")
	}
	return r.state.MoveToPosition(index, position)
}

func (r *builderREPL) remove(args string) error {
	index, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return errors.New("usage: rm <index>")
	}
	return r.state.Remove(index)
}

func (r *builderREPL) setSong(args string) error {
	rawIndex, ref := splitCommand(args)
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return errors.New("usage: song <index> <music-ref> (empty ref clears)")
	}
	if ref != "" {
		if _, err := r.catalogue.LookupSong(r.ctx, ref); err != nil {
			return err
		}
	}
	return r.state.SetSong(index, ref)
}

func (r *builderREPL) setNotes(args string) error {
	rawIndex, text := splitCommand(args)
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return errors.New("usage: notes <index> <text>")
	}
	return r.state.SetNotes(index, text)
}

func (r *builderREPL) save() error {
	err := r.sessions.Save(r.ctx, r.state)
	switch {
	case errors.Is(err, app.ErrNameRequired):
		return errors.New("set a session name first: set name <value>")
	case errors.Is(err, app.ErrVersionConflict):
		return errors.New("another client saved this session; 'load' to pick up their changes")
	case err != nil:
		return err
	}
	fmt.Printf("saved %s (version %d)\n", r.state.ID(), r.state.Version())
	return nil
}

func (r *builderREPL) list() error {
	summaries, err := r.sessions.List(r.ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no saved sessions")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %-30s %s  %d entries  saved %s\n",
			s.ID, s.Name, s.Date, s.EntryCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (r *builderREPL) load(args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		return errors.New("usage: load <session-id>")
	}
	if r.state.Dirty() {
		fmt.Println("warning: unsaved changes discarded")
	}
	if err := r.sessions.Load(r.ctx, id, r.state); err != nil {
		return err
	}
	fmt.Printf("loaded %q (version %d, %d entries)\n",
		r.state.Name(), r.state.Version(), r.state.Len())
	return nil
}

func (r *builderREPL) deleteSession(args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		return errors.New("usage: delete <session-id>")
	}
	if err := r.sessions.Delete(r.ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func (r *builderREPL) listExercises(args string) error {
	exercises, err := r.catalogue.ListExercises(r.ctx, 0, strings.TrimSpace(args))
	if err != nil {
		return err
	}
	for _, e := range exercises {
		fmt.Printf("%-8s phase %.1f  %-12s %s\n", e.ID, e.Phase, e.Category, e.Name)
	}
	fmt.Printf("%d exercises\n", len(exercises))
	return nil
}

func (r *builderREPL) songsFor(args string) error {
	exerciseID := strings.TrimSpace(args)
	if exerciseID == "" {
		return errors.New("usage: songs <exercise-id>")
	}
	songs, err := r.catalogue.SongsForExercise(r.ctx, exerciseID)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		fmt.Println("no recommended songs")
		return nil
	}
	for _, s := range songs {
		fmt.Printf("%-10s %-35s %-25s %s  %s\n",
			s.MusicRef, s.Title, s.Artist, s.Duration, s.Recommendation)
	}
	return nil
}

func (r *builderREPL) findBySong(args string) error {
	query := strings.TrimSpace(args)
	if query == "" {
		return errors.New("usage: find <song title or artist>")
	}
	exercises, err := r.catalogue.SearchExercisesBySong(r.ctx, query)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		fmt.Println("no exercises use a matching song")
		return nil
	}
	for _, e := range exercises {
		fmt.Printf("%-8s %s\n", e.ID, e.Name)
	}
	return nil
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func printHelp() {
	fmt.Print(`commands:
  show                         print the current draft
  set <field> <value>          set name, description, date or tags
  add <exercise-id> [label]    append an exercise
  move <index> up|down         swap an entry with its neighbor
  pos <index> <position>       move an entry to a 1-based position
  rm <index>                   remove an entry
  song <index> <music-ref>     attach a song (empty ref clears)
  notes <index> <text>         set entry notes
  save                         persist the draft now
  new                          discard the draft and start fresh
  list                         list saved sessions
  load <session-id>            open a saved session
  delete <session-id>          delete a saved session
  exercises [name]             browse the exercise catalogue
  songs <exercise-id>          recommended songs for an exercise
  find <text>                  exercises whose songs match title/artist
  quit
`)
}
