package main

import (
	"context"
	"log"
	"os"
	"time"

	"equisecure/internal/model"
	"equisecure/internal/repository"
	"equisecure/internal/scoring"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "equisecure"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDB)

	seedAdmin(ctx, repository.NewUserRepo(db))
	seedQuestionnaire(ctx, repository.NewQuestionnaireRepo(db))
}

func seedAdmin(ctx context.Context, users repository.UserRepo) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@equisecure.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "change-me-now"
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		log.Fatalf("Admin lookup failed: %v", err)
	}
	if existing != nil {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Password hash failed: %v", err)
	}

	id, err := users.Create(ctx, &model.User{
		Email:        email,
		FullName:     "EquiSecure Admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		HasConsented: true,
	})
	if err != nil {
		log.Fatalf("Admin create failed: %v", err)
	}
	log.Printf("Seeded admin %s (%s)", email, id)
}

func seedQuestionnaire(ctx context.Context, questionnaires repository.QuestionnaireRepo) {
	active, err := questionnaires.GetActive(ctx)
	if err != nil {
		log.Fatalf("Active questionnaire lookup failed: %v", err)
	}
	if active != nil {
		log.Printf("Active questionnaire %q already exists, skipping", active.Name)
		return
	}

	questionnaire := &model.Questionnaire{
		Name:     "Equine Facility Biosecurity Assessment",
		Version:  1,
		IsActive: true,
		Sections: []model.Section{
			{
				Name: "New Arrivals",
				Questions: []model.Question{
					singleSelect("Are new horses quarantined before joining the herd?",
						"Quarantine new arrivals for at least 21 days in a separate barn.",
						option("Yes, for 21 days or more", 0),
						option("Yes, but less than 21 days", 3),
						option("No quarantine", 8),
					),
					singleSelect("Is a health certificate required for incoming horses?",
						"",
						option("Always", 0),
						option("Sometimes", 4),
						option("Never", 7),
					),
				},
			},
			{
				Name: "Hygiene and Equipment",
				Questions: []model.Question{
					multiSelect("Which equipment is shared between horses without disinfection?",
						"Disinfect shared tack, buckets and grooming kits between horses.",
						option("Water buckets", 4),
						option("Grooming kits", 3),
						option("Tack and bits", 5),
						option("Nothing is shared undisinfected", -2),
					),
					singleSelect("How often are stables cleaned and disinfected?",
						"",
						option("Daily cleaning, weekly disinfection", 0),
						option("Weekly cleaning", 4),
						option("Less than weekly", 8),
					),
				},
			},
			{
				Name: "Visitors and Transport",
				Questions: []model.Question{
					singleSelect("Do visitors have access to the stables?",
						"Restrict stable access and provide hand-washing stations for visitors.",
						option("No, restricted areas only", 0),
						option("Yes, supervised", 3),
						option("Yes, unrestricted", 7),
					),
					freeText("Describe your procedure after returning from shows or events."),
				},
			},
		},
	}

	assignIDs(questionnaire)

	id, err := questionnaires.Create(ctx, questionnaire)
	if err != nil {
		log.Fatalf("Questionnaire create failed: %v", err)
	}
	log.Printf("Seeded active questionnaire %q (%s)", questionnaire.Name, id)
}

func assignIDs(questionnaire *model.Questionnaire) {
	for i := range questionnaire.Sections {
		section := &questionnaire.Sections[i]
		section.ID = uuid.New().String()
		section.OrderIndex = i
		for j := range section.Questions {
			question := &section.Questions[j]
			question.ID = uuid.New().String()
			question.OrderIndex = j
			for k := range question.Options {
				question.Options[k].ID = uuid.New().String()
				question.Options[k].OrderIndex = k
			}
			question.MaxScore = scoring.QuestionRiskCeiling(question)
		}
	}
}

func singleSelect(text, tip string, options ...model.Option) model.Question {
	return model.Question{Text: text, Type: model.QuestionTypeSingleSelect, ImprovementTip: tip, Options: options}
}

func multiSelect(text, tip string, options ...model.Option) model.Question {
	return model.Question{Text: text, Type: model.QuestionTypeMultiSelect, ImprovementTip: tip, Options: options}
}

func freeText(text string) model.Question {
	return model.Question{Text: text, Type: model.QuestionTypeFreeText}
}

func option(text string, score float64) model.Option {
	return model.Option{Text: text, Score: score}
}
