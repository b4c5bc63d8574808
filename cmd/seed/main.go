// Package main seeds a demo project so the editing UI has something to show
// on a fresh install.
package main

import (
	"fmt"
	"os"

	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/logger"
	"github.com/scriptroom/scriptroom-server/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	db, err := store.New(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	project := &domain.Project{Name: "月下之城（示例）"}
	if err := db.CreateProject(project); err != nil {
		return err
	}

	heroine := &domain.Character{Name: "女主角", CVName: "白瑶", ProjectID: project.ID}
	narrator := &domain.Character{Name: "旁白", ProjectID: project.ID}
	silence := &domain.Character{Name: domain.PseudoSilence, ProjectID: project.ID}
	sfx := &domain.Character{Name: domain.PseudoSoundEffect, ProjectID: project.ID}
	for _, c := range []*domain.Character{heroine, narrator, silence, sfx} {
		if err := db.CreateCharacter(c); err != nil {
			return err
		}
	}

	chapters := []*domain.Chapter{
		{ProjectID: project.ID, Position: 1, Title: "初雪", Lines: []domain.ScriptLine{
			{ID: "demo-l1", Text: "夜色如水，城门缓缓合上。", CharacterID: narrator.ID},
			{ID: "demo-l2", Text: "今晚不会有人来了吧。", CharacterID: heroine.ID},
			{ID: "demo-l3", Text: "", CharacterID: silence.ID},
			{ID: "demo-l4", Text: "她回头看了一眼来路。", CharacterID: narrator.ID},
		}},
		{ProjectID: project.ID, Position: 2, Title: "灯火", Lines: []domain.ScriptLine{
			{ID: "demo-l5", Text: "远处传来更鼓声。", CharacterID: sfx.ID},
			{ID: "demo-l6", Text: "有人在等我。", CharacterID: heroine.ID},
		}},
	}
	for _, ch := range chapters {
		if err := db.CreateChapter(ch); err != nil {
			return err
		}
	}

	log.Info("demo project seeded", "project", project.ID, "chapters", len(chapters))
	fmt.Printf("project: %s\n", project.ID)
	return nil
}
