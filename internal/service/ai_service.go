package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foresight_edu_backend/internal/config"
	"foresight_edu_backend/internal/model"
	"foresight_edu_backend/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LessonConfig 生成每日课程所需的上下文
type LessonConfig struct {
	Profile      model.Profile
	LearningPace string
	Language     string
	CurrentDay   int
	TotalDays    int
	PreviousDays int
	FocusArea    string
}

// Generator 课程内容生成器。AI 不可用时实现方必须返回降级内容而不是错误，
// 学习流程不能因上游故障中断。
type Generator interface {
	GeneratePlan(ctx context.Context, profile model.Profile, focusArea string, duration int) (*model.Course, bool)
	GenerateLesson(ctx context.Context, cfg LessonConfig) (*model.LessonPayload, bool)
}

// AIService 调用 Mistral 的 OpenAI 兼容 chat-completions 接口生成学习计划与每日课程
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &AIService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// aiPlan AI 返回的计划 JSON 结构
type aiPlan struct {
	CourseTitle        string   `json:"courseTitle"`
	Duration           int      `json:"duration"`
	FocusArea          string   `json:"focusArea"`
	LearningObjectives []string `json:"learningObjectives"`
	DailyStructure     string   `json:"dailyStructure"`
}

// GeneratePlan 按用户画像生成个性化学习计划。
// 第二个返回值表示是否为降级内容。
func (s *AIService) GeneratePlan(ctx context.Context, profile model.Profile, focusArea string, duration int) (*model.Course, bool) {
	if focusArea == "" {
		focusArea = "strategic_foresight"
	}
	if duration <= 0 {
		duration = 180
	}

	systemPrompt := "You are an AI learning planner. Create personalized learning journeys based on user profiles. " +
		"Return JSON with: courseTitle, duration (days), focusArea, learningObjectives, and dailyStructure."

	userPrompt := fmt.Sprintf(`Create a personalized learning plan for:
Skill Level: %s
Desired Level: %s
Goals: %s
Growth Areas: %s
Focus Area: %s
Duration: %d days`,
		profile.SkillLevel,
		profile.DesiredLevel,
		strings.Join(profile.Goals, ", "),
		strings.Join(profile.GrowthAreas, ", "),
		focusArea,
		duration,
	)

	content, err := s.complete(ctx, systemPrompt, userPrompt, 0)
	if err != nil {
		logger.Log.Warn("AI 计划生成失败，使用降级计划", zap.Error(err))
		return fallbackPlan(focusArea, duration), true
	}

	var plan aiPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil || plan.CourseTitle == "" {
		logger.Log.Warn("AI 计划响应解析失败，使用降级计划", zap.Error(err))
		return fallbackPlan(focusArea, duration), true
	}

	if plan.Duration <= 0 {
		plan.Duration = duration
	}

	return &model.Course{
		Title:              plan.CourseTitle,
		Duration:           plan.Duration,
		FocusArea:          plan.FocusArea,
		LearningObjectives: plan.LearningObjectives,
		DailyStructure:     plan.DailyStructure,
	}, false
}

// aiLesson AI 返回的课程 JSON 结构
type aiLesson struct {
	Title             string      `json:"title"`
	Content           string      `json:"content"`
	MCQs              []model.MCQ `json:"mcqs"`
	PracticalExercise string      `json:"practicalExercise"`
	KeyTakeaways      []string    `json:"keyTakeaways"`
}

// GenerateLesson 生成第 N 天的课程内容，含测验题。
// AI 输出必须恰好提供 5 道有效单选题，否则整体降级。
func (s *AIService) GenerateLesson(ctx context.Context, cfg LessonConfig) (*model.LessonPayload, bool) {
	systemPrompt := lessonSystemPrompt(cfg.Language)

	userPrompt := fmt.Sprintf(`Generate day %d/%d lesson for:
User Level: %s
Learning Pace: %s
Previous Days Completed: %d
Language: %s

Focus on practical, engaging content that builds on previous learning.
Include exactly 5 MCQs with explanations.`,
		cfg.CurrentDay, cfg.TotalDays,
		cfg.Profile.SkillLevel,
		cfg.LearningPace,
		cfg.PreviousDays,
		cfg.Language,
	)

	content, err := s.complete(ctx, systemPrompt, userPrompt, 2000)
	if err != nil {
		logger.Log.Warn("AI 课程生成失败，使用降级课程",
			zap.Int("day", cfg.CurrentDay),
			zap.Error(err))
		return fallbackLesson(cfg), true
	}

	var lesson aiLesson
	if err := json.Unmarshal([]byte(content), &lesson); err != nil {
		logger.Log.Warn("AI 课程响应解析失败，使用降级课程", zap.Error(err))
		return fallbackLesson(cfg), true
	}
	if !validLesson(lesson) {
		logger.Log.Warn("AI 课程内容不完整，使用降级课程", zap.Int("mcqs", len(lesson.MCQs)))
		return fallbackLesson(cfg), true
	}

	return &model.LessonPayload{
		Title:             lesson.Title,
		Content:           lesson.Content,
		MCQs:              lesson.MCQs,
		PracticalExercise: lesson.PracticalExercise,
		KeyTakeaways:      lesson.KeyTakeaways,
		Day:               cfg.CurrentDay,
		TotalDays:         cfg.TotalDays,
		Duration:          15,
		Language:          cfg.Language,
		GeneratedAt:       time.Now(),
	}, false
}

func (s *AIService) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// validLesson 检查 AI 输出是否满足每天恰好 5 题、每题选项含正确答案
func validLesson(lesson aiLesson) bool {
	if lesson.Title == "" || lesson.Content == "" {
		return false
	}
	if len(lesson.MCQs) != model.QuestionsPerDay {
		return false
	}
	for _, mcq := range lesson.MCQs {
		if mcq.Question == "" || len(mcq.Options) < 2 {
			return false
		}
		found := false
		for _, opt := range mcq.Options {
			if strings.TrimSpace(opt) == strings.TrimSpace(mcq.CorrectAnswer) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func lessonSystemPrompt(language string) string {
	if language == "fr" {
		return "Vous êtes un générateur de leçons quotidiennes pour la formation en prospective stratégique. " +
			"Créez des leçons quotidiennes engageantes qui s'appuient sur les connaissances précédentes. " +
			"Retournez JSON avec: title, content, mcqs (tableau avec question, options, correctAnswer, explanation), " +
			"practicalExercise, et keyTakeaways."
	}
	return "You are a daily lesson generator for strategic foresight training. " +
		"Create engaging daily lessons that build on previous knowledge. " +
		"Return JSON with: title, content, mcqs (array with question, options, correctAnswer, explanation), " +
		"practicalExercise, and keyTakeaways."
}

// fallbackPlan 离线可用的保底计划，沿用调用方要求的方向与时长
func fallbackPlan(focusArea string, duration int) *model.Course {
	return &model.Course{
		Title:     "Strategic Foresight Mastery",
		Duration:  duration,
		FocusArea: focusArea,
		LearningObjectives: []string{
			"Master prospective terminology",
			"Develop strategic thinking skills",
			"Apply foresight methodologies",
			"Create future scenarios",
		},
		DailyStructure: "15-minute lessons with practical exercises",
	}
}

// fallbackLesson 离线可用的保底课程，固定 5 题覆盖各能力维度
func fallbackLesson(cfg LessonConfig) *model.LessonPayload {
	fr := cfg.Language == "fr"

	pick := func(en, frText string) string {
		if fr {
			return frText
		}
		return en
	}

	mcqs := []model.MCQ{
		{
			Question: pick("What is the main goal of strategic foresight?",
				"Quel est l'objectif principal de la prospective stratégique ?"),
			Options: []string{
				pick("Predict the future accurately", "Prédire l'avenir avec précision"),
				pick("Explore possible futures", "Explorer les futurs possibles"),
				pick("Only analyze the past", "Analyser seulement le passé"),
				pick("Create statistics", "Créer des statistiques"),
			},
			CorrectAnswer: pick("Explore possible futures", "Explorer les futurs possibles"),
			Explanation: pick("Foresight explores multiple possible futures rather than trying to predict one single future.",
				"La prospective explore plusieurs futurs possibles plutôt que de tenter de prédire un seul avenir."),
		},
		{
			Question: pick("How does user engineering support foresight work?",
				"Comment l'ingénierie utilisateur soutient-elle la prospective ?"),
			Options: []string{
				pick("By grounding scenarios in real user needs", "En ancrant les scénarios dans les besoins réels des utilisateurs"),
				pick("By replacing scenario planning", "En remplaçant la planification par scénarios"),
				pick("By automating all decisions", "En automatisant toutes les décisions"),
				pick("By removing uncertainty", "En supprimant l'incertitude"),
			},
			CorrectAnswer: pick("By grounding scenarios in real user needs", "En ancrant les scénarios dans les besoins réels des utilisateurs"),
			Explanation: pick("User insight keeps future scenarios anchored to real behavior.",
				"La connaissance des utilisateurs ancre les scénarios futurs dans des comportements réels."),
		},
		{
			Question: pick("What defines foresight leadership?",
				"Qu'est-ce qui définit le leadership prospectif ?"),
			Options: []string{
				pick("Enforcing a single vision", "Imposer une vision unique"),
				pick("Guiding teams through uncertainty", "Guider les équipes dans l'incertitude"),
				pick("Avoiding long-term plans", "Éviter les plans à long terme"),
				pick("Delegating all analysis", "Déléguer toute l'analyse"),
			},
			CorrectAnswer: pick("Guiding teams through uncertainty", "Guider les équipes dans l'incertitude"),
			Explanation: pick("Leaders in foresight help teams act despite uncertain futures.",
				"Les dirigeants prospectifs aident les équipes à agir malgré l'incertitude."),
		},
		{
			Question: pick("Which technical habit strengthens scenario building?",
				"Quelle habitude technique renforce la construction de scénarios ?"),
			Options: []string{
				pick("Systematic trend scanning", "La veille systématique des tendances"),
				pick("Ignoring weak signals", "Ignorer les signaux faibles"),
				pick("Focusing on one data source", "Se concentrer sur une seule source de données"),
				pick("Avoiding documentation", "Éviter la documentation"),
			},
			CorrectAnswer: pick("Systematic trend scanning", "La veille systématique des tendances"),
			Explanation: pick("Regular scanning surfaces the weak signals scenarios are built on.",
				"Une veille régulière révèle les signaux faibles sur lesquels reposent les scénarios."),
		},
		{
			Question: pick("Why does measurement matter in a foresight practice?",
				"Pourquoi la mesure est-elle importante dans une démarche prospective ?"),
			Options: []string{
				pick("It proves predictions were right", "Elle prouve que les prédictions étaient justes"),
				pick("It tracks how scenarios inform decisions", "Elle suit comment les scénarios éclairent les décisions"),
				pick("It replaces qualitative analysis", "Elle remplace l'analyse qualitative"),
				pick("It is only for reporting", "Elle ne sert qu'aux rapports"),
			},
			CorrectAnswer: pick("It tracks how scenarios inform decisions", "Elle suit comment les scénarios éclairent les décisions"),
			Explanation: pick("Measurement connects foresight work to the decisions it influences.",
				"La mesure relie le travail prospectif aux décisions qu'il influence."),
		},
	}

	return &model.LessonPayload{
		Title: pick("Introduction to Strategic Foresight", "Introduction à la Prospective Stratégique"),
		Content: pick("Strategic foresight is a discipline that aims to explore possible futures to inform present-day actions.",
			"La prospective stratégique est une discipline qui vise à explorer les futurs possibles pour éclairer les actions présentes."),
		MCQs: mcqs,
		PracticalExercise: pick("Identify one emerging trend in your industry and imagine three possible scenarios.",
			"Identifiez une tendance émergente dans votre industrie et imaginez trois scénarios possibles."),
		KeyTakeaways: []string{
			pick("Exploring multiple futures", "Exploration de multiples futurs"),
			pick("Informed decision-making", "Prise de décision éclairée"),
		},
		Day:         cfg.CurrentDay,
		TotalDays:   cfg.TotalDays,
		Duration:    15,
		Language:    cfg.Language,
		GeneratedAt: time.Now(),
	}
}
