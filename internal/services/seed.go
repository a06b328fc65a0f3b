package services

import (
	"context"
	"fmt"
	"os"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ContentSeed is the YAML document accepted by the seed command.
type ContentSeed struct {
	Works       []WorkSeed        `yaml:"works"`
	Skills      []SkillSeed       `yaml:"skills"`
	SocialMedia []SocialMediaSeed `yaml:"social_media"`
	SelfContent *SelfContentSeed  `yaml:"self_content"`
}

type WorkSeed struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImgURL      string   `yaml:"img_url"`
	ImgLink     string   `yaml:"img_link"`
	Content     string   `yaml:"content"`
	Tags        []string `yaml:"tags"`
	GitHubURL   string   `yaml:"github_url"`
	GitPageURL  string   `yaml:"git_page_url"`
}

type SkillSeed struct {
	Title   string   `yaml:"title"`
	Icon    string   `yaml:"icon"`
	Details []string `yaml:"details"`
	Order   int      `yaml:"order"`
}

type SocialMediaSeed struct {
	Name  string `yaml:"name"`
	Link  string `yaml:"link"`
	Order int    `yaml:"order"`
}

type SelfContentSeed struct {
	BriefIntro string   `yaml:"brief_intro"`
	About      string   `yaml:"about"`
	HashTags   []string `yaml:"hash_tags"`
}

// SeedResult counts the rows written per table.
type SeedResult struct {
	Works       int
	Skills      int
	SocialMedia int
	SelfContent int
}

// LoadContentSeed reads and parses a seed file.
func LoadContentSeed(path string) (*ContentSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed ContentSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// SeedContent replaces all portfolio content with seed in one transaction.
// Sections absent from the seed are left untouched.
func SeedContent(ctx context.Context, db *gorm.DB, seed *ContentSeed) (*SeedResult, error) {
	result := &SeedResult{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if seed.Works != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Work{}).Error; err != nil {
				return err
			}
			for _, w := range seed.Works {
				work := models.Work{
					Title:       w.Title,
					Description: w.Description,
					ImgURL:      w.ImgURL,
					ImgLink:     w.ImgLink,
					Content:     w.Content,
					Tags:        nonNil(w.Tags),
					GitHubURL:   w.GitHubURL,
					GitPageURL:  w.GitPageURL,
				}
				if err := tx.Create(&work).Error; err != nil {
					return fmt.Errorf("work %q: %w", w.Title, err)
				}
				result.Works++
			}
		}

		if seed.Skills != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Skill{}).Error; err != nil {
				return err
			}
			for _, sk := range seed.Skills {
				skill := models.Skill{Title: sk.Title, Icon: sk.Icon, Details: nonNil(sk.Details), Order: sk.Order}
				if err := tx.Create(&skill).Error; err != nil {
					return fmt.Errorf("skill %q: %w", sk.Title, err)
				}
				result.Skills++
			}
		}

		if seed.SocialMedia != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SocialMedia{}).Error; err != nil {
				return err
			}
			for _, sm := range seed.SocialMedia {
				social := models.SocialMedia{Name: sm.Name, Link: sm.Link, Order: sm.Order}
				if err := tx.Create(&social).Error; err != nil {
					return fmt.Errorf("social media %q: %w", sm.Name, err)
				}
				result.SocialMedia++
			}
		}

		if seed.SelfContent != nil {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SelfContent{}).Error; err != nil {
				return err
			}
			content := models.SelfContent{
				BriefIntro: seed.SelfContent.BriefIntro,
				About:      seed.SelfContent.About,
				HashTags:   nonNil(seed.SelfContent.HashTags),
			}
			if err := tx.Create(&content).Error; err != nil {
				return err
			}
			result.SelfContent = 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
