package brainstorm

import (
	"fmt"

	"viralspark-api/internal/domain/entity"
)

// 语义化选项 ID，状态机据此识别特殊分支
const (
	// OptionIDOther 「其他/自定义」：不推进阶段，等用户手动输入
	OptionIDOther = "other"
	// OptionIDMoreIdeas 「再来几个」：仅 brainstorming 阶段，带重新生成指令委托模型
	OptionIDMoreIdeas = "more_ideas"
)

func optionList(values ...string) []Option {
	opts := make([]Option, 0, len(values)+1)
	for i, v := range values {
		opts = append(opts, Option{
			ID:    fmt.Sprintf("option_%d", i+1),
			Label: v,
			Value: v,
		})
	}
	opts = append(opts, Option{ID: OptionIDOther, Label: "Something else", Value: ""})
	return opts
}

// welcomeOpener 重置或首次进入时的开场白
func welcomeOpener() Content {
	return QuestionContent{
		Text: "Hey! I'm your content brainstorming buddy. Tell me what you want to make, " +
			"or pick a platform and we'll take it step by step.",
		Options: optionList("Instagram", "TikTok", "YouTube", "LinkedIn", "Twitter", "Email"),
	}
}

// platformQuestion 平台问题（welcome 之后的第一个脚本化问题）
func platformQuestion() Content {
	return QuestionContent{
		Text:    "Which platform are we creating for?",
		Options: optionList("Instagram", "TikTok", "YouTube", "LinkedIn", "Twitter", "Email"),
	}
}

// contentTypeQuestion 按平台给出内容形式选项
func contentTypeQuestion(platform string) Content {
	var values []string
	switch platform {
	case "Instagram":
		values = []string{"Instagram Reel", "Instagram Story", "Instagram Carousel", "Instagram Post"}
	case "TikTok":
		values = []string{"TikTok Video", "TikTok Photo Carousel", "TikTok Live Teaser"}
	case "YouTube":
		values = []string{"YouTube Short", "YouTube Video", "YouTube Community Post"}
	case "LinkedIn":
		values = []string{"LinkedIn Post", "LinkedIn Article", "LinkedIn Carousel"}
	case "Twitter":
		values = []string{"Tweet Thread", "Single Tweet", "Twitter Poll"}
	case "Email":
		values = []string{"Email Newsletter", "Promo Email", "Welcome Sequence"}
	default:
		values = []string{"Short Video", "Long Video", "Written Post", "Newsletter"}
	}
	text := "Nice. What kind of content are you thinking?"
	if platform != "" {
		text = fmt.Sprintf("Nice, %s it is. What kind of content are you thinking?", platform)
	}
	return QuestionContent{Text: text, Options: optionList(values...)}
}

// audienceQuestion 固定的受众选项集
func audienceQuestion() Content {
	return QuestionContent{
		Text:    "Who are we making this for?",
		Options: optionList("Gen Z", "Millennials", "Professionals", "Parents", "General audience"),
	}
}

// vibeQuestion 语气/风格问题
func vibeQuestion() Content {
	return QuestionContent{
		Text:    "Last one: what vibe should it have?",
		Options: optionList("Funny", "Educational", "Inspirational", "Edgy", "Wholesome"),
	}
}

// topicPrompt vibe 之后的自由输入提示，进入 brainstorming
func topicPrompt() Content {
	return TextContent{
		Text: "Perfect, I've got everything I need. What topic or product should we brainstorm around? " +
			"Type anything and I'll start throwing ideas at you.",
	}
}

// otherFollowUp 「其他」选项的追问，阶段保持不变
func otherFollowUp(step entity.FlowStep) Content {
	var what string
	switch step {
	case entity.FlowStepWelcome, entity.FlowStepPlatform:
		what = "platform"
	case entity.FlowStepContentType:
		what = "content format"
	case entity.FlowStepAudience:
		what = "audience"
	case entity.FlowStepVibe:
		what = "vibe"
	default:
		what = "answer"
	}
	return TextContent{Text: fmt.Sprintf("No problem, just type the %s you have in mind.", what)}
}

// scriptedQuestionFor 返回某阶段对应的脚本化问题
func scriptedQuestionFor(step entity.FlowStep, cfg entity.FlowConfig) Content {
	switch step {
	case entity.FlowStepWelcome:
		return welcomeOpener()
	case entity.FlowStepPlatform:
		return platformQuestion()
	case entity.FlowStepContentType:
		return contentTypeQuestion(cfg.Platform)
	case entity.FlowStepAudience:
		return audienceQuestion()
	case entity.FlowStepVibe:
		return vibeQuestion()
	default:
		return topicPrompt()
	}
}

// regenerateInstruction 「再来几个」的显式重生成指令
const regenerateInstruction = "Give me a few more alternatives, different from the ideas you already suggested."
