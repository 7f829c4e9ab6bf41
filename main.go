package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/deckgo/attribute"
	"github.com/pdok/deckgo/component"
	"github.com/pdok/deckgo/jsonconv"
	"github.com/pdok/deckgo/layers"
	"github.com/pdok/deckgo/project"
)

const DOCUMENT string = `document`
const WIDTH string = `width`
const HEIGHT string = `height`
const DPR string = `dpr`
const UPLOAD string = `upload`

var errNotADeck = errors.New(`document is not a Deck`)

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "deckgo"
	app.Usage = "Resolves a declarative deck document into viewports, projection uniforms and vertex attributes"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     DOCUMENT,
			Aliases:  []string{"d"},
			Usage:    "JSON or YAML deck document. The root object is a Deck, its @@type may be omitted",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(DOCUMENT)},
		},
		&cli.Float64Flag{
			Name:     WIDTH,
			Usage:    "Canvas width in pixels, used when the document has none",
			Value:    800,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(WIDTH)},
		},
		&cli.Float64Flag{
			Name:     HEIGHT,
			Usage:    "Canvas height in pixels, used when the document has none",
			Value:    600,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(HEIGHT)},
		},
		&cli.Float64Flag{
			Name:     DPR,
			Usage:    "Device pixel ratio",
			Value:    1,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(DPR)},
		},
		&cli.BoolFlag{
			Name:     UPLOAD,
			Aliases:  []string{"u"},
			Usage:    "Log the packed uniform blocks as they would be uploaded",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(UPLOAD)},
		},
	}

	app.Action = func(c *cli.Context) error {
		deck, err := loadDeck(c.String(DOCUMENT))
		if err != nil {
			return err
		}
		if deck.Width <= 0 {
			deck.Width = c.Float64(WIDTH)
		}
		if deck.Height <= 0 {
			deck.Height = c.Float64(HEIGHT)
		}
		if err = deck.Validate(); err != nil {
			return err
		}
		log.Println(component.Describe(deck))

		viewports, err := deck.Viewports()
		if err != nil {
			return err
		}
		var sink project.UniformSink
		if c.Bool(UPLOAD) {
			sink = logSink{}
		}

		log.Println("=== start resolving ===")
		for _, layer := range deck.Layers {
			props := layer.LayerProps()
			if !props.Visible {
				log.Printf("  skipping hidden layer %s", props.ID)
				continue
			}
			attributes, err := layers.LayerAttributes(layer)
			if err != nil {
				return fmt.Errorf(`layer %s: %w`, props.ID, err)
			}
			log.Printf("  layer %s (%s)", props.ID, component.ClassName(layer))
			logAttributes(attributes)

			for _, vp := range viewports {
				uniforms, err := layers.LayerUniforms(vp, layer, c.Float64(DPR))
				if err != nil {
					return fmt.Errorf(`layer %s in view %s: %w`, props.ID, vp.ID(), err)
				}
				log.Printf("    view %s: coordinate system %s, projection mode %s, scale %g",
					vp.ID(), uniforms.CoordinateSystem, uniforms.ProjectionMode, uniforms.Scale)
				if sink != nil {
					if err = uniforms.Upload(sink); err != nil {
						return err
					}
				}
			}
		}
		log.Println("=== done resolving ===")
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func loadDeck(p string) (*layers.Deck, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf(`error opening deck document: %w`, err)
	}
	conv := jsonconv.New(layers.Registry())
	var c component.Component
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		c, err = conv.ConvertYAML(data, "Deck")
	default:
		c, err = conv.Convert(data, "Deck")
	}
	if err != nil {
		return nil, err
	}
	deck, ok := c.(*layers.Deck)
	if !ok {
		return nil, fmt.Errorf(`%w: got %s`, errNotADeck, component.ClassName(c))
	}
	return deck, nil
}

func logAttributes(m *attribute.Manager) {
	for _, attr := range m.Attributes() {
		kind := "vertices"
		if attr.Instanced {
			kind = "instances"
		}
		log.Printf("    attribute %s: location %d, %d %s of size %d",
			attr.Name, attr.Location, attr.NumVertices(), kind, attr.Size)
	}
}

type logSink struct{}

func (logSink) SetUniformBlock(name string, data []float32) error {
	log.Printf("    uniform block %s: %v", name, data)
	return nil
}
