package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE social_contents (
				id UUID PRIMARY KEY,
				workspace_id VARCHAR(255) NOT NULL,
				creator_id VARCHAR(255) NOT NULL,
				content_type VARCHAR(50) NOT NULL CHECK (content_type IN ('text', 'image', 'video', 'link', 'carousel', 'story', 'reel')),
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'scheduled', 'published', 'failed', 'archived')),
				platforms JSONB NOT NULL DEFAULT '{}',
				publish_date TIMESTAMP WITH TIME ZONE,
				timezone VARCHAR(255),
				recurrence JSONB,
				analytics JSONB NOT NULL DEFAULT '{}',
				version BIGINT NOT NULL DEFAULT 1,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_social_contents_workspace_status_publish
				ON social_contents(workspace_id, status, publish_date);
			CREATE INDEX idx_social_contents_status_publish ON social_contents(status, publish_date);
			CREATE INDEX idx_social_contents_created_at ON social_contents(created_at);
		`,
	}
}
