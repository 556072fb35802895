package sqlinline

const QInsertGeneratedImage = `--sql 1f9e6d2b-7a48-4c03-b5d7-e82064af91c5
insert into generated_images (prompt_id, image_url, metadata_url, mint_tx_hash, model_used)
values ($1, $2, nullif($3, ''), nullif($4, ''), $5)
returning id;
`

const QSelectRecentImages = `--sql 68b0d4a7-3c92-45ef-a1b6-09d7f52e83c1
select g.id, g.prompt_id, g.image_url, coalesce(g.metadata_url, ''), coalesce(g.mint_tx_hash, ''),
       g.model_used, g.created_at, p.prompt_text
from generated_images g
join prompts p on p.id = g.prompt_id
order by g.created_at desc
limit $1;
`
