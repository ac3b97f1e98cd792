package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scenePath := flag.String("scene", "", "scene yaml to load instead of the built-in one")
	prefabDir := flag.String("prefabs", "", "directory of kind spec yamls to load and hot-reload")
	flag.Parse()

	game, err := NewGame(*scenePath, *prefabDir)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("grit demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
