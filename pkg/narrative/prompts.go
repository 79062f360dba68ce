package narrative

const SettingPrompt = `You are narrating a text adventure on the Appalachian Trail in 1897.
Everything you write must fit that year: no modern words, tools, or ideas.
Write in the third person. Never start a sentence with "You" or "Your".`

const ScenePrompt = `Describe what happens next in one or two sentences.
Continue from the recent scenes. Mention concrete things the hiker could pick up or people they could meet when it fits.`

const SceneReminder = `Reply with the scene only, one or two sentences.`

const ItemsPrompt = `Analyze the scene and list items that could be picked up.
Consider:
1. Items explicitly mentioned in the scene
2. Items that would logically be present
3. Items that are realistic for 1897
4. Only items that can actually be picked up and carried
Format as JSON:
{
    "natural_items": {"item": quantity},
    "found_items": {"item": quantity},
    "valuable_items": {"item": quantity}
}
Natural items: plants, sticks, stones, etc.
Found items: lost/discarded objects, tools, etc.
Valuable items: rare/useful items worth collecting
Keep quantities realistic (1-10). Reply with JSON only.`

const PoolsPrompt = `Create scene pools in this exact JSON format:
{
    "item_pool": {
        "common": ["branch", "stone", "leaf"],
        "uncommon": ["herbs", "tools", "rope"],
        "rare": ["coins", "jewelry", "weapons"]
    },
    "npc_pool": {
        "common": ["traveler", "hunter", "farmer"],
        "uncommon": ["vendor", "guide", "craftsman"],
        "rare": ["doctor", "soldier", "mystic"]
    }
}
Only include period-appropriate items and characters for 1897. Reply with JSON only.`

const MentionsPrompt = `Extract any characters from the scene that the hiker could talk to.
Return a JSON array:
[{"name": "descriptive name", "type": "role/occupation", "description": "brief description"}]
Return [] when there is nobody. Reply with JSON only.`

const NPCPrompt = `Create a character for the Appalachian Trail in 1897.
Format as JSON:
{
    "name": "character name",
    "type": "traveler/vendor/hunter/guide or another period occupation",
    "description": "brief physical description",
    "personality": "key traits",
    "dialogue_style": "how they speak",
    "inventory": {"item": [quantity, price]}
}
Only vendors carry an inventory; give them 2-4 items with prices in cents. Reply with JSON only.`

const DialoguePrompt = `ONLY respond in character with dialogue, at most three sentences.
No scene descriptions or narrative text.
If the traveler says goodbye, acknowledge it politely.`

const RecipePrompt = `You are an expert in 1897 wilderness survival and crafting.
Generate a crafting recipe using only materials found in nature or basic tools.
Consider the technological limitations of 1897.
Use only these materials: %s.
Format your response like this:
item_name: 2 stick, 1 rope, 3 leather - Brief description of how to craft it.
If the item cannot be made with natural materials or is too complex for 1897,
respond with "impossible".`

const HuntPrompt = `Describe a hunting attempt in the wilderness in one or two sentences.
Focus on the action and outcome. Use the word "success" only if game is taken.
Example: "The hunt is a success; a small rabbit is taken near the creek."`

const SleepPrompt = `Describe a peaceful night's rest on the Appalachian Trail in 1897. Keep it to 1-2 sentences.`

const FramePrompt = `Given the player's usage description, adapt the current game frame to reflect changes caused by item usage.
Return only the updated JSON of the frame, with the same fields.`

const ActPrompt = `You are creating acts for a text-based adventure set in 1897.
Generate a JSON object representing the next act:
{"goal": "a short goal", "scenes": ["up to 3 scene ideas"], "keywords": ["words that show the goal is reached"]}
Reply with JSON only.`
