package main

import (
	"github.com/charlespascoe/openai-list-models/pkg/models"
	"github.com/charlespascoe/openai-list-models/pkg/props"
)

type ListModelsCmd struct{}

func (listmodels *ListModelsCmd) Run(ctx *Context) error {
	cli := ctx.CLI

	conf, err := props.Load(cli.Config)
	if err != nil {
		return err
	}

	ctx.Log.Debug().
		Str("path", conf.Path).
		Int("entries", len(conf.Entries)).
		Msg("loaded config")

	key, err := conf.Credential(cli.Key)
	if err != nil {
		return err
	}

	client := models.NewClient(key, cli.BaseURL, ctx.Log)

	ctx.Log.Debug().Str("base_url", client.BaseURL()).Msg("requesting models")

	listing, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	ids := models.IDs(listing)

	ctx.Log.Debug().
		Int("received", len(listing.Models)).
		Int("listed", len(ids)).
		Msg("received models")

	return models.Write(ctx.Stdout, ids)
}
