package config

func (c *Config) GetBotToken() string {
	return c.v.GetString("bot_token")
}

func (c *Config) GetDatabasePath() string {
	return c.v.GetString("database_path")
}

func (c *Config) GetLogDir() string {
	return c.v.GetString("log_dir")
}

// Reward reset knobs: the local time-of-day and fixed UTC offset at which
// periodic rewards roll over.
func (c *Config) GetRewardResetHour() int {
	return c.v.GetInt("reward_reset_hour")
}

func (c *Config) GetRewardResetMinute() int {
	return c.v.GetInt("reward_reset_minute")
}

func (c *Config) GetRewardUTCOffsetSecs() int {
	return c.v.GetInt("reward_utc_offset_secs")
}
