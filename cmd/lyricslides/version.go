package main

import (
	"context"
	"fmt"

	"github.com/a-h/lyricslides"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(lyricslides.Version)
	return nil
}
