// Package ipc implements the request/response bridge between the UI and the
// privileged backend: the channel catalog, the response envelope and its
// normalization rules, the handler registry, and the push-event bus.
package ipc

import "strings"

// Channel identifies one backend operation. Both sides of the process
// boundary must agree on the literal string, so channels are defined here
// once and never constructed at runtime.
type Channel string

// Namespace returns the leading segment of the channel name ("config",
// "app", "db", "llm", "event").
func (c Channel) Namespace() string {
	s := string(c)
	if i := strings.IndexByte(s, ':'); i > 0 {
		return s[:i]
	}
	return s
}

func (c Channel) String() string { return string(c) }

// Config channels.
const (
	ChannelConfigGet        Channel = "config:get"
	ChannelConfigSet        Channel = "config:set"
	ChannelConfigGetSection Channel = "config:getSection"
	ChannelConfigSetSection Channel = "config:setSection"
	ChannelConfigGetAll     Channel = "config:getAll"
	ChannelConfigReset      Channel = "config:reset"
	ChannelConfigResetAll   Channel = "config:resetAll"
)

// Application window channels.
const (
	ChannelAppMinimize        Channel = "app:minimize"
	ChannelAppMaximize        Channel = "app:maximize"
	ChannelAppClose           Channel = "app:close"
	ChannelAppCheckForUpdates Channel = "app:checkForUpdates"
	ChannelAppGetVersion      Channel = "app:getVersion"
)

// Database channels.
const (
	ChannelDBInitialize   Channel = "db:initialize"
	ChannelDBExecuteQuery Channel = "db:executeQuery"
	ChannelDBBackup       Channel = "db:backup"

	ChannelProfileGetAll    Channel = "db:profile:getAll"
	ChannelProfileGetByID   Channel = "db:profile:getById"
	ChannelProfileCreate    Channel = "db:profile:create"
	ChannelProfileUpdate    Channel = "db:profile:update"
	ChannelProfileDelete    Channel = "db:profile:delete"
	ChannelProfileSearch    Channel = "db:profile:search"
	ChannelProfileGetRecent Channel = "db:profile:getRecent"

	ChannelQuoteGetAll       Channel = "db:quote:getAll"
	ChannelQuoteGetByID      Channel = "db:quote:getById"
	ChannelQuoteGetByProfile Channel = "db:quote:getByProfile"
	ChannelQuoteCreate       Channel = "db:quote:create"
	ChannelQuoteUpdate       Channel = "db:quote:update"
	ChannelQuoteDelete       Channel = "db:quote:delete"
	ChannelQuoteSearch       Channel = "db:quote:search"
	ChannelQuoteGetRandom    Channel = "db:quote:getRandom"

	ChannelExperienceGetAll      Channel = "db:experience:getAll"
	ChannelExperienceGetByID     Channel = "db:experience:getById"
	ChannelExperienceCreate      Channel = "db:experience:create"
	ChannelExperienceUpdate      Channel = "db:experience:update"
	ChannelExperienceDelete      Channel = "db:experience:delete"
	ChannelExperienceGetTimeline Channel = "db:experience:getTimeline"
	ChannelExperienceFindByTag   Channel = "db:experience:findByTag"

	ChannelHexagonGetAll       Channel = "db:hexagon:getAll"
	ChannelHexagonGetByID      Channel = "db:hexagon:getById"
	ChannelHexagonGetByProfile Channel = "db:hexagon:getByProfile"
	ChannelHexagonCreate       Channel = "db:hexagon:create"
	ChannelHexagonUpdate       Channel = "db:hexagon:update"
	ChannelHexagonDelete       Channel = "db:hexagon:delete"

	ChannelAnalysisGetByProfile Channel = "db:analysis:getByProfile"
	ChannelAnalysisGetByID      Channel = "db:analysis:getById"
	ChannelAnalysisCreate       Channel = "db:analysis:create"
	ChannelAnalysisDelete       Channel = "db:analysis:delete"
)

// LLM channels.
const (
	ChannelLLMGetProviders Channel = "llm:getProviders"

	ChannelLLMGetAllConfigs    Channel = "llm:getAllConfigs"
	ChannelLLMGetConfig        Channel = "llm:getConfig"
	ChannelLLMSaveConfig       Channel = "llm:saveConfig"
	ChannelLLMDeleteConfig     Channel = "llm:deleteConfig"
	ChannelLLMSetDefaultConfig Channel = "llm:setDefaultConfig"

	ChannelLLMQuery             Channel = "llm:query"
	ChannelLLMQueryWithTemplate Channel = "llm:queryWithTemplate"
	ChannelLLMAnalyzeHexagon    Channel = "llm:analyzeHexagonPersonality"

	ChannelLLMGetAllTemplates Channel = "llm:getAllTemplates"
	ChannelLLMGetTemplate     Channel = "llm:getTemplate"
	ChannelLLMSaveTemplate    Channel = "llm:saveTemplate"
	ChannelLLMDeleteTemplate  Channel = "llm:deleteTemplate"

	ChannelLLMGetAPIKey  Channel = "llm:getApiKey"
	ChannelLLMSetAPIKey  Channel = "llm:setApiKey"
	ChannelLLMTestAPIKey Channel = "llm:testApiKey"

	ChannelLLMGetAvailableModels Channel = "llm:getAvailableModels"
	ChannelLLMGetCustomModels    Channel = "llm:getCustomModels"
	ChannelLLMAddCustomModel     Channel = "llm:addCustomModel"
	ChannelLLMDeleteCustomModel  Channel = "llm:deleteCustomModel"
	ChannelLLMSetActiveModel     Channel = "llm:setActiveModel"

	ChannelLLMGetGlobalProxy Channel = "llm:getGlobalProxy"
	ChannelLLMSetGlobalProxy Channel = "llm:setGlobalProxy"
	ChannelLLMTestProxy      Channel = "llm:testProxy"
)

// Server-initiated event channels, delivered through the event bus rather
// than invoke/reply.
const (
	EventEntityChanged     Channel = "event:entityChanged"
	EventAnalysisCompleted Channel = "event:analysisCompleted"
	EventBackupCompleted   Channel = "event:backupCompleted"
	EventConfigChanged     Channel = "event:configChanged"
)
