package sqlinline

// QSelectOldestPendingPrompt reads the next candidate without claiming it.
const QSelectOldestPendingPrompt = `--sql 7c1f3a92-88de-4f10-9b54-2d40a1c6e8b3
select id, prompt_text, coalesce(wallet_address, ''), created_at
from prompts
where status = 'pending'
order by created_at asc
limit 1;
`

// QClaimPrompt marks a prompt as processing iff it is still pending. A
// command tag with zero affected rows means another worker won the claim.
const QClaimPrompt = `--sql 5b8e2f41-6a03-4d77-8c29-f1d95ab47e60
update prompts
set status = 'processing', updated_at = now()
where id = $1 and status = 'pending';
`

const QCompletePrompt = `--sql 9d4ac7e5-1f62-4b0d-a83e-6c25d90f14b7
update prompts
set status = 'completed', updated_at = now()
where id = $1;
`

const QFailPrompt = `--sql 3e7b90c4-25da-48f1-b6a9-80e4c1d57f22
update prompts
set status = 'failed', error = $2, updated_at = now()
where id = $1;
`

const QInsertPrompt = `--sql a2f61b83-49c7-4de0-95b1-37e8d2a0c654
insert into prompts (prompt_text, wallet_address, status)
values ($1, nullif($2, ''), 'pending')
returning id, created_at;
`

const QSelectPrompt = `--sql c85d3f07-b1e4-42a9-8d60-54f9721eab38
select p.id, p.prompt_text, p.status, coalesce(p.wallet_address, ''), coalesce(p.error, ''),
       p.created_at, p.updated_at,
       coalesce(g.image_url, ''), coalesce(g.metadata_url, ''), coalesce(g.mint_tx_hash, '')
from prompts p
left join generated_images g on g.prompt_id = p.id
where p.id = $1
order by g.created_at desc
limit 1;
`

const QSelectRecentPrompts = `--sql 6f2d84b1-c907-4a5e-bf38-12e6a9d0c475
select id, prompt_text, status, coalesce(error, ''), created_at
from prompts
order by created_at desc
limit $1;
`
