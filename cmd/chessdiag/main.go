package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/chessdiag"
	"github.com/bodgit/chessdiag/paletted"
	"github.com/bodgit/chessdiag/pgn"
	"github.com/bodgit/chessdiag/refart"
	"github.com/nfnt/resize"
	"github.com/urfave/cli/v2"
)

const (
	defaultDB = "chessdiag.db"
	lastFile  = ".last.png"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadCatalog(c *cli.Context) (*chessdiag.Catalog, error) {
	if dir := c.String("ref"); dir != "" {
		return refart.LoadCatalog(dir)
	}
	return refart.Catalog()
}

func openLibrary(c *cli.Context) (*chessdiag.Library, *chessdiag.DiagramDB, error) {
	catalog, err := loadCatalog(c)
	if err != nil {
		return nil, nil, err
	}

	db, err := chessdiag.NewDiagramDB(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return chessdiag.NewLibrary(db, catalog, newLogger(c)), db, nil
}

func notation(c *cli.Context) (string, error) {
	if file := c.String("pgn"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()

		return pgn.Position(f, c.Int("game"), c.Int("ply"))
	}

	if c.NArg() > 1 {
		return strings.Join(c.Args().Tail(), " "), nil
	}

	b, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func render(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	catalog, err := loadCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	s, err := notation(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Printf("Using %s\n", s)

	m, err := catalog.EncodeNotation(s, chessdiag.Options{
		Flip:        c.Bool("flip"),
		ShowMargin:  c.Bool("show-side"),
		BlackToMove: c.Bool("black-to-move"),
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var out image.Image = m
	if scale := c.Uint("scale"); scale > 1 {
		out = resize.Resize(uint(m.Bounds().Dx())*scale, 0, m, resize.NearestNeighbor)
	}

	b := new(bytes.Buffer)
	if c.Bool("paletted") {
		err = paletted.Encode(b, out)
	} else {
		err = png.Encode(b, out)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	output := c.Args().First() + ".png"
	if _, err := os.Stat(output); err == nil && !c.Bool("override") {
		return cli.NewExitError(fmt.Sprintf("%s already exists", output), 1)
	}
	if err := ioutil.WriteFile(output, b.Bytes(), 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	last := filepath.Join(filepath.Dir(output), lastFile)
	if prev, err := ioutil.ReadFile(last); err == nil && bytes.Equal(prev, b.Bytes()) {
		fmt.Println("Saved duplicate file")
		return nil
	}
	if err := ioutil.WriteFile(last, b.Bytes(), 0644); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func toTolerance(v uint) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, fmt.Errorf("tolerance must be between 0 and %d", math.MaxUint8)
	}
	return uint8(v), nil
}

func recognize(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	catalog, err := loadCatalog(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	tolerance, err := toTolerance(c.Uint("tolerance"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	d := chessdiag.Decoder{
		Catalog:   catalog,
		Tolerance: tolerance,
	}

	for _, file := range c.Args().Slice() {
		m, _, err := chessdiag.ReadImage(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		diag, err := d.Decode(m)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
		}

		if c.NArg() > 1 {
			fmt.Printf("%s: %s\n", file, diag.Notation())
		} else {
			fmt.Println(diag.Notation())
		}
	}

	return nil
}

func addMargin(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, db, err := openLibrary(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	path := c.Args().First()
	info, err := os.Stat(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if info.IsDir() {
		out := c.String("out")
		if out == "" {
			out = path
		}
		if err := l.AddMargins(path, out); err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}

	var blackToMove bool
	switch strings.ToLower(c.String("side")) {
	case "b", "black":
		blackToMove = true
	case "w", "white":
	default:
		return cli.NewExitError("side to move must be white or black", 1)
	}

	out := filepath.Base(path)
	if dir := c.String("out"); dir != "" {
		out = filepath.Join(dir, out)
	}
	// Always write PNG, whatever the source format
	out = strings.TrimSuffix(out, filepath.Ext(out)) + ".png"

	added, err := l.AddMargin(path, out, blackToMove)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !added {
		fmt.Printf("%s already has a margin\n", path)
	}

	return nil
}

func importHints(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := chessdiag.NewDiagramDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	n, err := db.ImportHints(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	newLogger(c).Printf("Imported %d hints\n", n)

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	l, db, err := openLibrary(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := l.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func find(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	p, err := chessdiag.ParseNotation(strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	db, err := chessdiag.NewDiagramDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	paths, err := db.FindByBoard(p.Board.String())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, path := range paths {
		fmt.Println(path)
	}

	return nil
}

func reference(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	refs, err := refart.Generate()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	dir := c.Args().First()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := refart.Save(dir, refs); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func splitPGN(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	file := c.Args().First()
	f, err := os.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	counts, err := pgn.Split(f, strings.TrimSuffix(file, filepath.Ext(file)))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	logger := newLogger(c)
	for tc, n := range counts {
		logger.Printf("%d games at %s\n", n, tc)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "chessdiag"
	app.Usage = "Chess diagram drawing and recognition utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"CHESSDIAG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "ref",
			EnvVars: []string{"CHESSDIAG_REF"},
			Usage:   "directory of reference images, instead of the built-in art",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Draw a diagram of a position",
			Description: "The position is read from the command line, a PGN file or standard input. The diagram is written to NAME.png.",
			ArgsUsage:   "NAME [NOTATION]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "black-to-move",
					Aliases: []string{"b"},
					Usage:   "to-move indicator shows that black is to move",
				},
				&cli.BoolFlag{
					Name:    "show-side",
					Aliases: []string{"s"},
					Usage:   "show a to-move indicator and coordinates",
				},
				&cli.BoolFlag{
					Name:    "flip",
					Aliases: []string{"f"},
					Usage:   "flip the board so black is at the bottom",
				},
				&cli.BoolFlag{
					Name:    "override",
					Aliases: []string{"o"},
					Usage:   "allow writing over files or creating duplicate diagrams",
				},
				&cli.StringFlag{
					Name:  "pgn",
					Usage: "read the position from a PGN `FILE`",
				},
				&cli.IntFlag{
					Name:  "game",
					Value: 1,
					Usage: "game number within the PGN file",
				},
				&cli.IntFlag{
					Name:  "ply",
					Value: -1,
					Usage: "number of half-moves to play, the final position if negative",
				},
				&cli.UintFlag{
					Name:  "scale",
					Value: 1,
					Usage: "enlarge the diagram; scaled diagrams can't be recognized",
				},
				&cli.BoolFlag{
					Name:  "paletted",
					Usage: "write an indexed-color PNG",
				},
			},
			Action: render,
		},
		{
			Name:      "recognize",
			Usage:     "Print the notation of the position shown by diagrams",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "tolerance",
					Usage: "largest per-channel pixel difference accepted, 0 requires an exact match",
				},
			},
			Action: recognize,
		},
		{
			Name:        "add-margin",
			Usage:       "Add coordinates and a to-move indicator to diagrams",
			Description: "A single FILE needs --side; for a DIRECTORY the side to move comes from hints in the database, matched on the path relative to DIRECTORY or on any path ending with it.",
			ArgsUsage:   "FILE|DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "side",
					Usage: "side to move, white or black",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "output `DIRECTORY`",
				},
			},
			Action: addMargin,
		},
		{
			Name:      "import-hints",
			Usage:     "Import side to move hints from a flash card export",
			ArgsUsage: "FILE",
			Action:    importHints,
		},
		{
			Name:      "scan",
			Usage:     "Recognize and index every diagram in a directory",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
		{
			Name:      "find",
			Usage:     "List indexed diagrams showing a position",
			ArgsUsage: "NOTATION",
			Action:    find,
		},
		{
			Name:        "split-pgn",
			Usage:       "Split a PGN file up by time control",
			Description: "Games are appended to \"FILE TC.pgn\" alongside FILE, one file per time control.",
			ArgsUsage:   "FILE",
			Action:      splitPGN,
		},
		{
			Name:      "reference",
			Usage:     "Write the built-in reference art",
			ArgsUsage: "DIRECTORY",
			Action:    reference,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
